package models

import "time"

// User holds the identity record. RefreshToken stores the sha256 hex of the
// single active refresh token; an empty value means no live session.
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName    string    `gorm:"not null"                 json:"firstName"`
	LastName     string    `gorm:"not null"                 json:"lastName"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null"                 json:"name"`
	Description string    `gorm:"default:''"               json:"description"`
	Price       float64   `gorm:"not null"                 json:"price"`
	Image       string    `gorm:"default:''"               json:"image"`
	Category    string    `gorm:"index;default:''"         json:"category"`
	Stock       int       `gorm:"not null;default:0"       json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                 json:"id"`
	UserID    uint `gorm:"index;not null"             json:"userId"`
	ProductID uint `gorm:"not null"                   json:"productId"`
	Quantity  int  `gorm:"default:1;check:quantity>0" json:"quantity"`
}
