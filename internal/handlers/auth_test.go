package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/camphub/campus-events-api/internal/auth"
	"github.com/camphub/campus-events-api/internal/dto"
	"github.com/camphub/campus-events-api/internal/models"
	"github.com/camphub/campus-events-api/internal/repository"
	"github.com/camphub/campus-events-api/internal/services"
)

// AuthHandlerTestSuite exercises the authentication routes end to end against
// an in-memory database.
type AuthHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

// SetupTest runs before each test
func (suite *AuthHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Attendance{},
	)
	suite.Require().NoError(err)

	tokens, err := auth.NewTokenService(auth.TokenConfig{AccessSecret: "test-secret"})
	suite.Require().NoError(err)

	authService := services.NewAuthService(repository.NewUserRepository(suite.db), tokens, services.LogMailer{})
	handler := NewAuthHandler(authService)

	gin.SetMode(gin.TestMode)

	suite.router = gin.New()
	authRoutes := suite.router.Group("/api/auth")
	{
		authRoutes.POST("/register", handler.Register)
		authRoutes.POST("/login", handler.Login)
		authRoutes.POST("/refresh-token", handler.Refresh)
		authRoutes.POST("/request-password-reset", handler.RequestPasswordReset)
		authRoutes.POST("/reset-password/:token", handler.ResetPassword)
	}
}

// TearDownTest runs after each test
func (suite *AuthHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AuthHandlerTestSuite) postJSON(url string, body interface{}) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	suite.Require().NoError(err)

	req := httptest.NewRequest("POST", url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthHandlerTestSuite) registerDefaultUser() dto.AuthResponse {
	w := suite.postJSON("/api/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.edu",
		"password": "Passw0rd",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	var response dto.AuthResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func (suite *AuthHandlerTestSuite) TestRegister_Success() {
	response := suite.registerDefaultUser()

	assert.Equal(suite.T(), "alice", response.User.Username)
	assert.Equal(suite.T(), "alice@example.edu", response.User.Email)
	assert.Equal(suite.T(), models.RoleUser, response.User.Role)
	assert.NotEmpty(suite.T(), response.AccessToken)
	assert.NotEmpty(suite.T(), response.RefreshToken)
}

func (suite *AuthHandlerTestSuite) TestRegister_DuplicateEmail() {
	suite.registerDefaultUser()

	w := suite.postJSON("/api/auth/register", gin.H{
		"username": "alice2",
		"email":    "Alice@Example.edu",
		"password": "Passw0rd",
	})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "Email already registered")
}

func (suite *AuthHandlerTestSuite) TestRegister_WeakPassword() {
	w := suite.postJSON("/api/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.edu",
		"password": "short",
	})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "password")
}

func (suite *AuthHandlerTestSuite) TestRegister_MissingFields() {
	w := suite.postJSON("/api/auth/register", gin.H{
		"username": "alice",
	})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *AuthHandlerTestSuite) TestLogin_Success() {
	suite.registerDefaultUser()

	w := suite.postJSON("/api/auth/login", gin.H{
		"email":    "alice@example.edu",
		"password": "Passw0rd",
	})

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.AuthResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "alice", response.User.Username)
	assert.NotEmpty(suite.T(), response.AccessToken)
}

func (suite *AuthHandlerTestSuite) TestLogin_FailuresAreIndistinguishable() {
	suite.registerDefaultUser()

	wrongPassword := suite.postJSON("/api/auth/login", gin.H{
		"email":    "alice@example.edu",
		"password": "WrongPass1",
	})
	unknownUser := suite.postJSON("/api/auth/login", gin.H{
		"email":    "nobody@example.edu",
		"password": "Passw0rd",
	})

	assert.Equal(suite.T(), http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(suite.T(), http.StatusUnauthorized, unknownUser.Code)
	assert.Equal(suite.T(), wrongPassword.Body.String(), unknownUser.Body.String())
}

func (suite *AuthHandlerTestSuite) TestRefresh_Success() {
	registered := suite.registerDefaultUser()

	w := suite.postJSON("/api/auth/refresh-token", gin.H{
		"refreshToken": registered.RefreshToken,
	})

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var pair auth.TokenPair
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &pair))
	assert.NotEmpty(suite.T(), pair.AccessToken)
	assert.NotEmpty(suite.T(), pair.RefreshToken)
}

func (suite *AuthHandlerTestSuite) TestRefresh_InvalidToken() {
	w := suite.postJSON("/api/auth/refresh-token", gin.H{
		"refreshToken": "garbage",
	})

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *AuthHandlerTestSuite) TestRequestPasswordReset_AlwaysSucceeds() {
	suite.registerDefaultUser()

	known := suite.postJSON("/api/auth/request-password-reset", gin.H{"email": "alice@example.edu"})
	unknown := suite.postJSON("/api/auth/request-password-reset", gin.H{"email": "nobody@example.edu"})

	assert.Equal(suite.T(), http.StatusOK, known.Code)
	assert.Equal(suite.T(), http.StatusOK, unknown.Code)
	assert.Equal(suite.T(), known.Body.String(), unknown.Body.String())
}

func (suite *AuthHandlerTestSuite) TestResetPassword_FullFlow() {
	suite.registerDefaultUser()

	w := suite.postJSON("/api/auth/request-password-reset", gin.H{"email": "alice@example.edu"})
	suite.Require().Equal(http.StatusOK, w.Code)

	// The token travels by email; read it back from storage.
	var user models.User
	suite.Require().NoError(suite.db.Where("email = ?", "alice@example.edu").First(&user).Error)
	suite.Require().NotNil(user.ResetPasswordToken)

	w = suite.postJSON("/api/auth/reset-password/"+*user.ResetPasswordToken, gin.H{
		"newPassword": "NewPassw0rd",
	})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.postJSON("/api/auth/login", gin.H{
		"email":    "alice@example.edu",
		"password": "NewPassw0rd",
	})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	// The token is single use.
	w = suite.postJSON("/api/auth/reset-password/"+*user.ResetPasswordToken, gin.H{
		"newPassword": "AnotherPassw0rd1",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func TestAuthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
