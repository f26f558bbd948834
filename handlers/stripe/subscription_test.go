package stripe

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"plangains-backend/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	stripe "github.com/stripe/stripe-go/v82"
)

const (
	testMemberID  = "123e4567-e89b-12d3-a456-426614174001"
	testCreatorID = "123e4567-e89b-12d3-a456-426614174002"
	testSubID     = "123e4567-e89b-12d3-a456-426614174003"
)

func subscribeRouter(handler *Handler, userID string) *gin.Engine {
	r := testutils.SetupTestRouter()
	r.POST("/subscriptions/checkout/:creatorId", func(c *gin.Context) {
		c.Set("user_id", userID)
		handler.StartSubscription(c)
	})
	r.DELETE("/subscriptions/:subscriptionId", func(c *gin.Context) {
		c.Set("user_id", userID)
		handler.CancelSubscription(c)
	})
	return r
}

func expectMemberLookup(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role"}).
			AddRow(testMemberID, "member@example.com", "MEMBER"))
}

func expectCreatorLookup(mock sqlmock.Sqlmock, priceCents int, accountID string, onboarded bool) {
	mock.ExpectQuery(`SELECT (.+) FROM "creators" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "display_name", "slug", "monthly_price_cents",
			"stripe_account_id", "stripe_onboarding_complete", "is_active",
		}).AddRow(testCreatorID, "123e4567-e89b-12d3-a456-4266141740ff", "Coach Sarah", "coach-sarah",
			priceCents, accountID, onboarded, true))
}

// Subscribing to a free creator writes a single "free" row through the
// reconciler's upsert path, no Stripe involved.
func TestStartSubscription_FreeCreator(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectMemberLookup(mock)
	expectCreatorLookup(mock, 0, "", false)
	expectSubscriptionUpsert(mock, `INSERT INTO "subscriptions" (.+) ON CONFLICT \("member_id","creator_id"\) DO UPDATE SET`)

	r := subscribeRouter(NewHandler(nil), testMemberID)
	req, _ := http.NewRequest(http.MethodPost, "/subscriptions/checkout/"+testCreatorID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, "Subscribed", respBody["message"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A second subscribe for the same pair hits the same conflict key: still
// one row, still free.
func TestStartSubscription_FreeCreatorTwice(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	for i := 0; i < 2; i++ {
		expectMemberLookup(mock)
		expectCreatorLookup(mock, 0, "", false)
		expectSubscriptionUpsert(mock, `ON CONFLICT \("member_id","creator_id"\) DO UPDATE SET`)
	}

	r := subscribeRouter(NewHandler(nil), testMemberID)
	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest(http.MethodPost, "/subscriptions/checkout/"+testCreatorID, nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		assert.Equal(t, http.StatusOK, resp.Code)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStartSubscription_PaidCreatorCreatesProvisionalRow(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectMemberLookup(mock)
	expectCreatorLookup(mock, 1999, "acct_123", true)
	expectSubscriptionUpsert(mock, `DO UPDATE SET (.+)"stripe_checkout_session_id"="excluded"\."stripe_checkout_session_id" RETURNING`)

	gateway := &stubGateway{
		session: &stripe.CheckoutSession{
			ID:  "cs_test_123",
			URL: "https://checkout.stripe.com/c/pay/cs_test_123",
		},
	}

	r := subscribeRouter(NewHandler(gateway), testMemberID)
	req, _ := http.NewRequest(http.MethodPost, "/subscriptions/checkout/"+testCreatorID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, "cs_test_123", respBody["sessionId"])
	assert.NotEmpty(t, respBody["url"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStartSubscription_PaidCreatorWithoutGateway(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectMemberLookup(mock)
	expectCreatorLookup(mock, 1999, "acct_123", true)

	r := subscribeRouter(NewHandler(nil), testMemberID)
	req, _ := http.NewRequest(http.MethodPost, "/subscriptions/checkout/"+testCreatorID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A paid creator who has not finished payout onboarding cannot accept
// new paid subscriptions.
func TestStartSubscription_PaidCreatorOnboardingIncomplete(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectMemberLookup(mock)
	expectCreatorLookup(mock, 1999, "acct_123", false)

	r := subscribeRouter(NewHandler(&stubGateway{}), testMemberID)
	req, _ := http.NewRequest(http.MethodPost, "/subscriptions/checkout/"+testCreatorID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func expectSubscriptionLookup(mock sqlmock.Sqlmock, stripeSubID string) {
	mock.ExpectQuery(`SELECT (.+) FROM "subscriptions" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "member_id", "creator_id", "status", "stripe_subscription_id",
		}).AddRow(testSubID, testMemberID, testCreatorID, "active", stripeSubID))
}

// When Stripe is unreachable the local row must stay untouched: the action
// fails instead of marking canceled optimistically.
func TestCancelSubscription_StripeUnreachableKeepsLocalState(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectSubscriptionLookup(mock, "sub_123")

	gateway := &stubGateway{err: assert.AnError}

	r := subscribeRouter(NewHandler(gateway), testMemberID)
	req, _ := http.NewRequest(http.MethodDelete, "/subscriptions/"+testSubID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	// no UPDATE was expected: the local status stays as it was
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelSubscription_StripeNotConfiguredKeepsLocalState(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectSubscriptionLookup(mock, "sub_123")

	r := subscribeRouter(NewHandler(nil), testMemberID)
	req, _ := http.NewRequest(http.MethodDelete, "/subscriptions/"+testSubID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelSubscription_WithStripeReference(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectSubscriptionLookup(mock, "sub_123")
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "subscriptions" SET (.*)"status"=(.+) WHERE "id" = \$`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	gateway := &stubGateway{
		subscription: &stripe.Subscription{
			ID:     "sub_123",
			Status: stripe.SubscriptionStatusCanceled,
			Items: &stripe.SubscriptionItemList{
				Data: []*stripe.SubscriptionItem{{CurrentPeriodEnd: 1900000000}},
			},
		},
	}

	r := subscribeRouter(NewHandler(gateway), testMemberID)
	req, _ := http.NewRequest(http.MethodDelete, "/subscriptions/"+testSubID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "sub_123", gateway.canceledID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelSubscription_FreeTierCancelsDirectly(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectSubscriptionLookup(mock, "")
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "subscriptions" SET "status"=(.+) WHERE "id" = \$`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := subscribeRouter(NewHandler(nil), testMemberID)
	req, _ := http.NewRequest(http.MethodDelete, "/subscriptions/"+testSubID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelSubscription_NotOwner(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectSubscriptionLookup(mock, "sub_123")

	r := subscribeRouter(NewHandler(nil), "123e4567-e89b-12d3-a456-4266141740ee")
	req, _ := http.NewRequest(http.MethodDelete, "/subscriptions/"+testSubID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
