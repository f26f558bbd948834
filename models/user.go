package models

import (
	"time"
)

type Role string

// Définir les valeurs possibles pour le rôle
const (
	AdminRole   Role = "ADMIN"
	MemberRole  Role = "MEMBER"
	CreatorRole Role = "CREATOR"
)

type User struct {
	ID               string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Email            string    `json:"email" binding:"required,email" gorm:"uniqueIndex;not null"`
	Password         string    `json:"password" binding:"required,min=6"`
	UserName         string    `json:"username"`
	Role             Role      `json:"role" gorm:"type:varchar(20);default:'MEMBER'"`
	StripeCustomerId string    `json:"stripeCustomerId"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// UserCreate model for the register and login payloads
type UserCreate struct {
	Email    string `json:"email" binding:"required,email" example:"jean.dupont@example.com"`
	Password string `json:"password" binding:"required,min=6" example:"Password123"`
	UserName string `json:"username" example:"jeandupont"`
}
