package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"plangains-backend/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

func authRouter() *gin.Engine {
	r := testutils.SetupTestRouter()
	r.POST("/register", CreateUser)
	r.POST("/login", Login)
	return r
}

func postJSON(r *gin.Engine, path string, payload map[string]string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestCreateUser_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE email = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users" (.+) RETURNING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("123e4567-e89b-12d3-a456-426614174000"))
	mock.ExpectCommit()

	resp := postJSON(authRouter(), "/register", map[string]string{
		"email":    "jean.dupont@example.com",
		"password": "Password123",
		"username": "jeandupont",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)

	var respBody map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, "User created successfully", respBody["message"])
	assert.Equal(t, "jean.dupont@example.com", respBody["email"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_InvalidEmail(t *testing.T) {
	resp := postJSON(authRouter(), "/register", map[string]string{
		"email":    "not-an-email",
		"password": "Password123",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCreateUser_WeakPassword(t *testing.T) {
	cases := map[string]string{
		"too short": "Pw1",
		"no upper":  "password123",
		"no lower":  "PASSWORD123",
		"no digit":  "PasswordOnly",
	}

	for name, password := range cases {
		t.Run(name, func(t *testing.T) {
			resp := postJSON(authRouter(), "/register", map[string]string{
				"email":    "jean.dupont@example.com",
				"password": password,
			})

			assert.Equal(t, http.StatusBadRequest, resp.Code)
		})
	}
}

func TestCreateUser_EmailAlreadyUsed(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).
			AddRow("123e4567-e89b-12d3-a456-426614174000", "jean.dupont@example.com"))

	resp := postJSON(authRouter(), "/register", map[string]string{
		"email":    "jean.dupont@example.com",
		"password": "Password123",
	})

	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_Success(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	hash, err := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.MinCost)
	assert.NoError(t, err)

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "role"}).
			AddRow("123e4567-e89b-12d3-a456-426614174000", "jean.dupont@example.com", string(hash), "MEMBER"))

	resp := postJSON(authRouter(), "/login", map[string]string{
		"email":    "jean.dupont@example.com",
		"password": "Password123",
	})

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.NotEmpty(t, respBody["token"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_WrongPassword(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	hash, err := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.MinCost)
	assert.NoError(t, err)

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "role"}).
			AddRow("123e4567-e89b-12d3-a456-426614174000", "jean.dupont@example.com", string(hash), "MEMBER"))

	resp := postJSON(authRouter(), "/login", map[string]string{
		"email":    "jean.dupont@example.com",
		"password": "WrongPassword1",
	})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var respBody map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, "Wrong credentials", respBody["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_UnknownEmail(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE email = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	resp := postJSON(authRouter(), "/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "Password123",
	})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
