package main

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"catalog/internal/config"
	"catalog/internal/db"
	"catalog/internal/model"
	"catalog/internal/repository"
	"catalog/internal/service"
)

type seedUser struct {
	Username string
	Password string
	Products []service.ProductInput
}

var demoUsers = []seedUser{
	{
		Username: "alice",
		Password: "alice-demo-pass",
		Products: []service.ProductInput{
			{Name: "Widget", Description: "A standard widget", ImageURL: "https://example.com/img/widget.png"},
			{Name: "Gadget", Description: "A deluxe gadget"},
		},
	},
	{
		Username: "bob",
		Password: "bob-demo-pass",
		Products: []service.ProductInput{
			{Name: "Sprocket", Description: "A sturdy sprocket"},
		},
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Product{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	productService := service.NewProductService(productRepo)
	ctx := context.Background()

	var createdUsers, skippedUsers, createdProducts int
	for _, su := range demoUsers {
		user, err := userRepo.FindByUsername(ctx, su.Username)
		if err == nil {
			log.Printf("User %q already exists, skipping products", su.Username)
			skippedUsers++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Failed to look up user %q: %v", su.Username, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password for %q: %v", su.Username, err)
		}

		user = &model.User{Username: su.Username, PasswordHash: string(hash)}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user %q: %v", su.Username, err)
		}
		createdUsers++

		products, err := productService.BulkCreate(ctx, user, su.Products)
		if err != nil {
			log.Fatalf("Failed to create products for %q: %v", su.Username, err)
		}
		createdProducts += len(products)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New users created: %d", createdUsers)
	log.Printf("  - Existing users skipped: %d", skippedUsers)
	log.Printf("  - Products created: %d", createdProducts)
}
