package models

import (
	"time"
)

// Prices are stored in minor units (cents) so order totals can be
// summed without floating point drift.

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null"                 json:"name"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Phone        string `json:"phone"`
	IsAdmin      bool   `gorm:"default:false"            json:"isAdmin"`
	Street       string `json:"street"`
	Apartment    string `json:"apartment"`
	Zip          string `json:"zip"`
	City         string `json:"city"`
	Country      string `json:"country"`
}

type Category struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"not null"                 json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type Product struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string    `gorm:"not null"                 json:"name"`
	Description     string    `gorm:"not null"                 json:"description"`
	RichDescription string    `json:"richDescription"`
	Image           string    `json:"image"`
	Images          []string  `gorm:"serializer:json"          json:"images"`
	Brand           string    `json:"brand"`
	Price           int64     `gorm:"not null"                 json:"price"`
	CategoryID      uint      `gorm:"index;not null"           json:"categoryId"`
	Category        *Category `json:"category,omitempty"`
	CountInStock    uint      `json:"countInStock"`
	Rating          float64   `json:"rating"`
	NumReviews      uint      `json:"numReviews"`
	IsFeatured      bool      `gorm:"default:false;index"      json:"isFeatured"`
}

// OrderItem rows are created before their parent order exists. OrderID
// stays zero (orphan) until the order row is persisted and claims them;
// Position preserves the order of the submitted line items.
type OrderItem struct {
	ID        uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint     `gorm:"index"                    json:"orderId"`
	Position  int      `json:"position"`
	ProductID uint     `gorm:"not null"                 json:"productId"`
	Product   *Product `json:"product,omitempty"`
	Quantity  uint     `gorm:"check:quantity>0"         json:"quantity"`
}

type Order struct {
	ID               uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	Items            []OrderItem `json:"orderItems"`
	ShippingAddress1 string      `gorm:"not null"                 json:"shippingAddress1"`
	ShippingAddress2 string      `json:"shippingAddress2"`
	City             string      `json:"city"`
	Zip              string      `json:"zip"`
	Country          string      `json:"country"`
	Phone            string      `json:"phone"`
	Status           string      `gorm:"not null;default:Pending" json:"status"`
	TotalPrice       int64       `json:"totalPrice"`
	UserID           uint        `gorm:"index;not null"           json:"userId"`
	User             *User       `json:"user,omitempty"`
	DateOrdered      time.Time   `gorm:"autoCreateTime"           json:"dateOrdered"`
}
