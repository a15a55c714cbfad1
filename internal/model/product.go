package model

// Product is a catalog record owned by exactly one user. The owner is
// fixed at creation time and never transferable.
type Product struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:100;not null;index"`
	Description string `json:"description" gorm:"size:255"`
	OwnerID     uint   `json:"owner_id" gorm:"not null;index"`
	ImageURL    string `json:"image_url" gorm:"size:255"`

	Owner *User `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}
