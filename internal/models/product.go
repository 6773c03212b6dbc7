package models

import "time"

// Product is a catalog entry owned by an artisan. Image holds either a
// relative upload path ("/uploads/...") or an absolute URL.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string    `json:"name" validate:"required,min=1,max=200"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	Description string    `json:"description" validate:"omitempty,max=2000"`
	Category    string    `json:"category" gorm:"index;type:varchar(100)"`
	Image       string    `json:"image" gorm:"type:varchar(500)"`
	ArtisanID   string    `json:"artisan" gorm:"index;type:varchar(36)"`
	Featured    bool      `json:"featured" gorm:"index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
