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

func connectRouter(handler *Handler, userID string) *gin.Engine {
	r := testutils.SetupTestRouter()
	r.POST("/connect/onboarding-link", func(c *gin.Context) {
		c.Set("user_id", userID)
		handler.CreateOnboardingLink(c)
	})
	r.POST("/connect/refresh", func(c *gin.Context) {
		c.Set("user_id", userID)
		handler.RefreshAccountStatus(c)
	})
	return r
}

func expectCreatorByUser(mock sqlmock.Sqlmock, accountID string) {
	mock.ExpectQuery(`SELECT (.+) FROM "creators" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "slug", "stripe_account_id"}).
			AddRow(testCreatorID, testMemberID, "coach-sarah", accountID))
}

func TestCreateOnboardingLink_FirstTimeCreatesAccount(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectCreatorByUser(mock, "")
	expectMemberLookup(mock)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "creators" SET "stripe_account_id"=(.+) WHERE "id" = \$`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	gateway := &stubGateway{account: &stripe.Account{ID: "acct_123"}}

	r := connectRouter(NewHandler(gateway), testMemberID)
	req, _ := http.NewRequest(http.MethodPost, "/connect/onboarding-link", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.NotEmpty(t, respBody["url"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOnboardingLink_ExistingAccountReused(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectCreatorByUser(mock, "acct_123")

	r := connectRouter(NewHandler(&stubGateway{}), testMemberID)
	req, _ := http.NewRequest(http.MethodPost, "/connect/onboarding-link", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOnboardingLink_WithoutCreatorProfile(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "creators" WHERE user_id = \$1`).
		WillReturnError(assert.AnError)

	r := connectRouter(NewHandler(&stubGateway{}), testMemberID)
	req, _ := http.NewRequest(http.MethodPost, "/connect/onboarding-link", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshAccountStatus_RederivesOnboardingFlag(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectCreatorByUser(mock, "acct_123")
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "creators" SET "stripe_onboarding_complete"=(.+) WHERE stripe_account_id = \$`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT (.+) FROM "creators" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "stripe_account_id", "stripe_onboarding_complete"}).
			AddRow(testCreatorID, "acct_123", true))

	gateway := &stubGateway{
		account: &stripe.Account{
			ID:               "acct_123",
			DetailsSubmitted: true,
			ChargesEnabled:   true,
			PayoutsEnabled:   true,
		},
	}

	r := connectRouter(NewHandler(gateway), testMemberID)
	req, _ := http.NewRequest(http.MethodPost, "/connect/refresh", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var creator map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &creator)
	assert.Equal(t, true, creator["stripeOnboardingComplete"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshAccountStatus_WithoutAccount(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectCreatorByUser(mock, "")

	r := connectRouter(NewHandler(&stubGateway{}), testMemberID)
	req, _ := http.NewRequest(http.MethodPost, "/connect/refresh", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
