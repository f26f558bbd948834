package models

import (
	"time"
)

// Creator represents a coach selling a monthly training membership
type Creator struct {
	ID                       string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID                   string    `json:"userId" gorm:"type:uuid;not null;uniqueIndex"`
	DisplayName              string    `json:"displayName" gorm:"not null"`
	Slug                     string    `json:"slug" gorm:"uniqueIndex;not null"`
	Bio                      string    `json:"bio"`
	MonthlyPriceCents        int       `json:"monthlyPriceCents" gorm:"not null;default:0"`
	StripeAccountId          string    `json:"stripeAccountId"`
	StripeOnboardingComplete bool      `json:"stripeOnboardingComplete" gorm:"default:false"`
	IsActive                 bool      `json:"isActive" gorm:"default:true"`
	CreatedAt                time.Time `json:"createdAt"`
	UpdatedAt                time.Time `json:"updatedAt"`
}

// CreatorCreate model for applying to become a creator
// @Description model for opening a coach profile
type CreatorCreate struct {
	DisplayName  string  `json:"displayName" binding:"required,min=2" example:"Coach Sarah"`
	Slug         string  `json:"slug" binding:"required" example:"coach-sarah"`
	Bio          string  `json:"bio" binding:"max=500" example:"Strength coaching for beginners"`
	MonthlyPrice float64 `json:"monthlyPrice" binding:"min=0" example:"19.99"`
}

// CreatorPricingUpdate model for updating the monthly price
type CreatorPricingUpdate struct {
	MonthlyPrice float64 `json:"monthlyPrice" binding:"min=0" example:"29.99"`
}

// IsFree reports whether the membership never touches payment
func (cr *Creator) IsFree() bool {
	return cr.MonthlyPriceCents == 0
}

// CanAcceptPaidSubscriptions reports whether checkout may be started.
// A paid creator must have finished Stripe Connect onboarding first.
func (cr *Creator) CanAcceptPaidSubscriptions() bool {
	if cr.IsFree() {
		return true
	}
	return cr.StripeAccountId != "" && cr.StripeOnboardingComplete
}
