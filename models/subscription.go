package models

import (
	"time"
)

type SubscriptionStatus string

// Statuses mirror Stripe's subscription statuses 1:1, plus two platform
// statuses: "free" for zero-cost memberships that never touch Stripe, and
// "paused" which is derived when a subscription carries a pause_collection
// marker.
const (
	SubscriptionTrialing          SubscriptionStatus = "trialing"
	SubscriptionActive            SubscriptionStatus = "active"
	SubscriptionIncomplete        SubscriptionStatus = "incomplete"
	SubscriptionIncompleteExpired SubscriptionStatus = "incomplete_expired"
	SubscriptionPastDue           SubscriptionStatus = "past_due"
	SubscriptionCanceled          SubscriptionStatus = "canceled"
	SubscriptionUnpaid            SubscriptionStatus = "unpaid"
	SubscriptionPaused            SubscriptionStatus = "paused"
	SubscriptionFree              SubscriptionStatus = "free"
)

// EntitledStatuses are the statuses allowed to log workouts
var EntitledStatuses = []SubscriptionStatus{
	SubscriptionActive,
	SubscriptionTrialing,
	SubscriptionFree,
}

// IsEntitled reports whether the status grants access to program content
func (s SubscriptionStatus) IsEntitled() bool {
	for _, allowed := range EntitledStatuses {
		if s == allowed {
			return true
		}
	}
	return false
}

// Subscription links a member to one creator. The composite unique index on
// (member_id, creator_id) is the conflict key for every upsert: a member can
// never hold two rows against the same creator.
type Subscription struct {
	ID                      string             `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	MemberID                string             `json:"memberId" gorm:"type:uuid;not null;uniqueIndex:idx_member_creator"`
	CreatorID               string             `json:"creatorId" gorm:"type:uuid;not null;uniqueIndex:idx_member_creator"`
	Status                  SubscriptionStatus `json:"status" gorm:"type:varchar(20);default:'incomplete'"`
	PriceCents              int                `json:"priceCents" gorm:"not null;default:0"`
	StripeSubscriptionId    string             `json:"stripeSubscriptionId"`
	StripeCustomerId        string             `json:"stripeCustomerId"`
	StripeCheckoutSessionId string             `json:"stripeCheckoutSessionId"`
	CurrentPeriodEnd        *time.Time         `json:"currentPeriodEnd"`
	CreatedAt               time.Time          `json:"createdAt"`
	UpdatedAt               time.Time          `json:"updatedAt"`
}
