package stripe

import (
	"fmt"
	"time"

	"plangains-backend/db"
	"plangains-backend/models"
	"plangains-backend/utils"

	stripe "github.com/stripe/stripe-go/v82"
	"gorm.io/gorm/clause"
)

// Reconciler translates Stripe subscription and account objects into the
// canonical local rows. Every write is an atomic upsert keyed on
// (member_id, creator_id), so replaying the same event converges on the
// same row.
type Reconciler struct {
	gateway Gateway
}

func NewReconciler(gateway Gateway) *Reconciler {
	return &Reconciler{gateway: gateway}
}

// NormalizeStatus applies pause derivation at the boundary: a subscription
// carrying a pause_collection marker is stored as "paused" whatever its raw
// status. Everything downstream only ever sees normalized statuses.
func NormalizeStatus(sub *stripe.Subscription) models.SubscriptionStatus {
	if sub.PauseCollection != nil {
		return models.SubscriptionPaused
	}
	return models.SubscriptionStatus(sub.Status)
}

// UpsertParams carries one subscription write. PeriodEnd (epoch seconds)
// and CheckoutSessionID are optional: when nil the stored value is left
// untouched, callers only pass fields they have fresh data for.
type UpsertParams struct {
	MemberID             string
	CreatorID            string
	StripeSubscriptionId string
	StripeCustomerId     string
	PriceCents           int
	Status               models.SubscriptionStatus
	PeriodEnd            *int64
	CheckoutSessionID    *string
}

// UpsertSubscription writes the row for (member, creator) in one
// INSERT ... ON CONFLICT DO UPDATE. The update column list is built per
// call so absent optional fields never clobber previously stored values.
// Last writer wins; ordering is left to the store's serialization.
func (r *Reconciler) UpsertSubscription(p UpsertParams) error {
	row := models.Subscription{
		MemberID:             p.MemberID,
		CreatorID:            p.CreatorID,
		Status:               p.Status,
		PriceCents:           p.PriceCents,
		StripeSubscriptionId: p.StripeSubscriptionId,
		StripeCustomerId:     p.StripeCustomerId,
	}

	assignments := []string{
		"status",
		"price_cents",
		"stripe_subscription_id",
		"stripe_customer_id",
		"updated_at",
	}

	if p.PeriodEnd != nil {
		end := time.Unix(*p.PeriodEnd, 0).UTC()
		row.CurrentPeriodEnd = &end
		assignments = append(assignments, "current_period_end")
	}
	if p.CheckoutSessionID != nil {
		row.StripeCheckoutSessionId = *p.CheckoutSessionID
		assignments = append(assignments, "stripe_checkout_session_id")
	}

	err := db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}, {Name: "creator_id"}},
		DoUpdates: clause.AssignmentColumns(assignments),
	}).Create(&row).Error
	if err != nil {
		utils.LogError(err, "Subscription upsert failed in UpsertSubscription")
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// ApplyAccountSnapshot recomputes the onboarding flag from a full account
// snapshot and writes it onto every creator referencing that account.
// Accounts are always delivered as complete snapshots, never deltas, so
// applying them in any order converges.
func (r *Reconciler) ApplyAccountSnapshot(account *stripe.Account) error {
	complete := isOnboardingComplete(account)
	err := db.DB.Model(&models.Creator{}).
		Where("stripe_account_id = ?", account.ID).
		Update("stripe_onboarding_complete", complete).Error
	if err != nil {
		utils.LogError(err, "Creator onboarding update failed in ApplyAccountSnapshot")
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// ReconcileAccountStatus fetches the latest account snapshot and applies it
func (r *Reconciler) ReconcileAccountStatus(accountID string) error {
	if r.gateway == nil {
		return ErrNotConfigured
	}
	account, err := r.gateway.RetrieveAccount(accountID)
	if err != nil {
		return err
	}
	return r.ApplyAccountSnapshot(account)
}

// isOnboardingComplete requires all four signals: details submitted,
// charges enabled, payouts enabled and an empty currently_due list.
func isOnboardingComplete(account *stripe.Account) bool {
	if account.Requirements != nil && len(account.Requirements.CurrentlyDue) > 0 {
		return false
	}
	return account.DetailsSubmitted && account.ChargesEnabled && account.PayoutsEnabled
}

// subscriptionPriceCents reads the monthly amount from the first item
func subscriptionPriceCents(sub *stripe.Subscription) int {
	if sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return 0
	}
	return int(sub.Items.Data[0].Price.UnitAmount)
}

// subscriptionPeriodEnd reads the current period end from the first item,
// nil when Stripe did not send one
func subscriptionPeriodEnd(sub *stripe.Subscription) *int64 {
	if sub.Items == nil || len(sub.Items.Data) == 0 {
		return nil
	}
	end := sub.Items.Data[0].CurrentPeriodEnd
	if end == 0 {
		return nil
	}
	return &end
}

func subscriptionCustomerID(sub *stripe.Subscription) string {
	if sub.Customer == nil {
		return ""
	}
	return sub.Customer.ID
}
