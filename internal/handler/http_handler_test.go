package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stumdgreen/railstutorial/internal/domain"
	"github.com/stumdgreen/railstutorial/internal/middleware"
	"github.com/stumdgreen/railstutorial/internal/repository"
	"github.com/stumdgreen/railstutorial/internal/service"
	"github.com/stumdgreen/railstutorial/pkg/log"
)

func setupHandler(t *testing.T) (*Handler, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.UserModel{},
		&domain.MicropostModel{},
		&domain.FollowModel{},
	))

	userRepo := repository.NewGormUserRepository(db)
	followRepo := repository.NewGormFollowRepository(db)
	micropostRepo := repository.NewGormMicropostRepository(db)

	users := service.NewUserService(userRepo)
	graph := service.NewSocialGraphService(followRepo, userRepo)
	microposts := service.NewMicropostService(micropostRepo, userRepo)
	feed := service.NewFeedService(micropostRepo, 30)

	return NewHandler(users, graph, microposts, feed, middleware.NewAuthMiddleware(users)), db
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	h, _ := setupHandler(t)
	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string              `json:"code"`
		Message string              `json:"message"`
		Fields  []domain.FieldError `json:"fields"`
	} `json:"error"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func registerViaAPI(t *testing.T, r *gin.Engine, name, email string) *domain.AuthResponse {
	t.Helper()

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":                  name,
		"email":                 email,
		"password":              "secret1",
		"password_confirmation": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var auth domain.AuthResponse
	require.NoError(t, json.Unmarshal(resp.Data, &auth))
	return &auth
}

func TestHandler_RegisterAndLogin(t *testing.T) {
	r := setupRouter(t)

	auth := registerViaAPI(t, r, "Alice", "Alice@Example.COM")
	assert.Equal(t, "alice@example.com", auth.User.Email)
	assert.NotEmpty(t, auth.SessionToken)

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	w, resp = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

func TestHandler_RegisterValidationFailure(t *testing.T) {
	r := setupRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":                  "Alice",
		"email":                 "not-an-email",
		"password":              "secret1",
		"password_confirmation": "secret1",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
	require.Len(t, resp.Error.Fields, 1)
	assert.Equal(t, "email", resp.Error.Fields[0].Field)
}

func TestHandler_AuthRequired(t *testing.T) {
	r := setupRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/feed", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, resp.Error)

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/feed", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_MicropostAndFeedFlow(t *testing.T) {
	r := setupRouter(t)

	alice := registerViaAPI(t, r, "Alice", "alice@example.com")
	bob := registerViaAPI(t, r, "Bob", "bob@example.com")

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/microposts", bob.SessionToken, gin.H{
		"content": "hello from bob",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/users/"+bob.User.ID+"/follow", alice.SessionToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/feed", alice.SessionToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Items []domain.Micropost `json:"items"`
		Total int                `json:"total"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "hello from bob", page.Items[0].Content)

	w, resp = doJSON(t, r, http.MethodGet, "/api/v1/users/"+bob.User.ID+"/follow_stats", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats domain.FollowStatsResponse
	require.NoError(t, json.Unmarshal(resp.Data, &stats))
	assert.Equal(t, int64(1), stats.Followers)
}

func TestHandler_DeleteForeignMicropostForbidden(t *testing.T) {
	r := setupRouter(t)

	alice := registerViaAPI(t, r, "Alice", "alice@example.com")
	bob := registerViaAPI(t, r, "Bob", "bob@example.com")

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/microposts", bob.SessionToken, gin.H{
		"content": "bob's post",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var post domain.Micropost
	require.NoError(t, json.Unmarshal(resp.Data, &post))

	w, resp = doJSON(t, r, http.MethodDelete, "/api/v1/microposts/"+strconv.FormatUint(uint64(post.ID), 10), alice.SessionToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)
}

func TestHandler_SelfFollowRejected(t *testing.T) {
	r := setupRouter(t)

	alice := registerViaAPI(t, r, "Alice", "alice@example.com")

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/users/"+alice.User.ID+"/follow", alice.SessionToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
}

// A user deleted between authentication and the handler call should see
// a 404, not an internal error.
func TestHandler_ProfileOfDeletedUser(t *testing.T) {
	h, _ := setupHandler(t)

	for _, call := range []func(*gin.Context){h.GetMe, h.DeleteMe} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
		c.Set(log.FieldUserID, "no-such-id")

		call(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	}
}

func TestHandler_GetMissingUser(t *testing.T) {
	r := setupRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/users/no-such-id", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}
