package models

import "gorm.io/gorm"

// CartItem is a product entry in an open cart. Quantity only; prices are
// resolved and snapshotted at checkout, not here.
type CartItem struct {
	ID        uint   `json:"-" gorm:"primaryKey"`
	CartID    string `json:"-" gorm:"index;type:varchar(36)"`
	ProductID string `json:"product_id" gorm:"type:varchar(36)" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// Cart is a customer's open shopping cart. One open cart per customer.
type Cart struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID string     `json:"customer_id" gorm:"uniqueIndex;type:varchar(36)"`
	Items      []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	gorm.Model
}
