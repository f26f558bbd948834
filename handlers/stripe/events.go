package stripe

import (
	"encoding/json"

	stripe "github.com/stripe/stripe-go/v82"
)

// relevantEvents is the allow-list of webhook event kinds this service
// consumes. Anything else is acknowledged with 200 and ignored, because
// Stripe retries failed deliveries indefinitely.
var relevantEvents = map[stripe.EventType]bool{
	"checkout.session.completed":    true,
	"customer.subscription.created": true,
	"customer.subscription.updated": true,
	"customer.subscription.deleted": true,
	"account.updated":               true,
}

// Each recognized event kind is decoded into a typed command before it
// reaches the reconciler. A decode returning (nil, nil) means a required
// correlation field is missing: the event is skipped without failing the
// delivery, so one malformed event cannot block the rest of the stream.

type checkoutCompletedCommand struct {
	MemberID          string
	CreatorID         string
	CheckoutSessionID string
	SubscriptionID    string
}

type subscriptionChangedCommand struct {
	MemberID     string
	CreatorID    string
	Subscription *stripe.Subscription
}

type accountUpdatedCommand struct {
	Account *stripe.Account
}

func decodeCheckoutCompleted(event stripe.Event) (*checkoutCompletedCommand, error) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, err
	}
	if session.Subscription == nil || session.Subscription.ID == "" {
		return nil, nil
	}
	memberID := session.Metadata["member_id"]
	creatorID := session.Metadata["creator_id"]
	if memberID == "" || creatorID == "" {
		return nil, nil
	}
	return &checkoutCompletedCommand{
		MemberID:          memberID,
		CreatorID:         creatorID,
		CheckoutSessionID: session.ID,
		SubscriptionID:    session.Subscription.ID,
	}, nil
}

func decodeSubscriptionChanged(event stripe.Event) (*subscriptionChangedCommand, error) {
	var subscription stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &subscription); err != nil {
		return nil, err
	}
	memberID := subscription.Metadata["member_id"]
	creatorID := subscription.Metadata["creator_id"]
	if memberID == "" || creatorID == "" {
		return nil, nil
	}
	return &subscriptionChangedCommand{
		MemberID:     memberID,
		CreatorID:    creatorID,
		Subscription: &subscription,
	}, nil
}

func decodeAccountUpdated(event stripe.Event) (*accountUpdatedCommand, error) {
	var account stripe.Account
	if err := json.Unmarshal(event.Data.Raw, &account); err != nil {
		return nil, err
	}
	if account.ID == "" {
		return nil, nil
	}
	return &accountUpdatedCommand{Account: &account}, nil
}
