package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"catalog/internal/auth"
	"catalog/internal/errors"
	"catalog/internal/handler"
	"catalog/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	productHandler *handler.ProductHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/register/", authHandler.Register)
	e.POST("/token/", authHandler.Token)
	e.POST("/token/refresh/", authHandler.Refresh)
	e.POST("/logout/", authHandler.Logout)

	// Secured routes: bearer token verification followed by explicit
	// resolution of the token's user, so handlers always receive a live
	// identity rather than raw claims.
	secured := e.Group("",
		echojwt.WithConfig(echojwt.Config{
			TokenLookup: "header:" + echo.HeaderAuthorization,
			ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
				return jwtService.ValidateToken(tokenString)
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return unauthorized()
			},
		}),
		resolveUser(authService),
	)

	secured.GET("/me/", authHandler.Me)

	secured.GET("/products/", productHandler.List)
	secured.POST("/products/", productHandler.Create)
	secured.POST("/products/bulk/", productHandler.BulkCreate)
	secured.GET("/products/:id/", productHandler.Get)
	secured.PATCH("/products/:id/", productHandler.Update)
	secured.DELETE("/products/:id/", productHandler.Delete)
}

// resolveUser maps verified claims to the current user. A token whose
// user no longer exists, or a refresh token on a protected route, is
// rejected as unauthorized.
func resolveUser(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*auth.Claims)
			if !ok {
				return unauthorized()
			}
			user, err := authService.Resolve(c.Request().Context(), claims)
			if err != nil {
				return unauthorized()
			}
			c.Set(handler.ContextUserKey, user)
			return next(c)
		}
	}
}

func unauthorized() error {
	return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
		Error: errors.ErrInvalidToken.Error(),
		Code:  "INVALID_TOKEN",
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
