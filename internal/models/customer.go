package models

import "gorm.io/gorm"

// Customer represents a shopper account. Email is the login identifier.
type Customer struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email       string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	FirstName   string `json:"first_name" gorm:"type:varchar(50)" validate:"omitempty,max=50"`
	LastName    string `json:"last_name" gorm:"type:varchar(50)" validate:"omitempty,max=50"`
	PhoneNumber string `json:"phone_number" gorm:"type:varchar(20)" validate:"omitempty,max=20"`
	Password    string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	IsStaff     bool   `json:"is_staff"`
	gorm.Model         // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
