package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"folio_backend/database"
	"folio_backend/internal/app"
	"folio_backend/internal/auth"
	"folio_backend/internal/config"
	"folio_backend/internal/logger"
	"folio_backend/internal/models"
)

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
}

// setupTestEnv поднимает полный HTTP-стек поверх sqlite: тот же роутер
// и middleware, что и в продакшене, только БД временная.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)
	logger.Init("test")

	config.AppConfig = &config.Config{}
	config.AppConfig.Server.Env = "test"
	config.AppConfig.JWT.Secret = "test-secret"
	config.AppConfig.JWT.TTL = 60

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	return &testEnv{
		db:     db,
		router: app.SetupRouter(config.AppConfig, db),
	}
}

func (e *testEnv) createUser(t *testing.T, name string, role models.UserRole) (*models.User, string) {
	t.Helper()

	user := &models.User{
		Email:        name + "_" + uuid.NewString() + "@test.com",
		PasswordHash: "irrelevant",
		Name:         name,
		Role:         role,
	}
	require.NoError(t, e.db.Create(user).Error)

	token, err := auth.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func (e *testEnv) submitReview(t *testing.T, token string, rating int, body string) string {
	t.Helper()

	resp := e.request(t, http.MethodPost, "/api/v1/reviews", token, gin.H{
		"rating": rating,
		"body":   body,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decodeBody(t, resp)["id"].(string)
}

func TestHealthEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.request(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestSubmitReview_RequiresAuth(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/v1/reviews", "", gin.H{
		"rating": 5,
		"body":   "text",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = env.request(t, http.MethodPost, "/api/v1/reviews", "not-a-jwt", gin.H{
		"rating": 5,
		"body":   "text",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestSubmitReview_CreatedPending(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createUser(t, "member", models.UserRoleUser)

	resp := env.request(t, http.MethodPost, "/api/v1/reviews", token, gin.H{
		"rating":       7,
		"body":         "Great work",
		"project_name": "Portfolio site",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	body := decodeBody(t, resp)
	assert.Equal(t, "pending", body["status"])
	assert.EqualValues(t, 5, body["rating"], "рейтинг обрезается до 5")
	assert.Equal(t, "member", body["author_name"])
}

// Явный rating=0 - переданное значение, обрезается до 1;
// отклоняется только полностью отсутствующее поле.
func TestSubmitReview_ZeroRatingClamped(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createUser(t, "member", models.UserRoleUser)

	resp := env.request(t, http.MethodPost, "/api/v1/reviews", token, gin.H{
		"rating": 0,
		"body":   "zero rating",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	body := decodeBody(t, resp)
	assert.EqualValues(t, 1, body["rating"])

	// А вот без rating вовсе - ошибка валидации
	resp = env.request(t, http.MethodPost, "/api/v1/reviews", token, gin.H{
		"body": "no rating at all",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSubmitReview_ValidationFailed(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createUser(t, "member", models.UserRoleUser)

	// Без body отзыва
	resp := env.request(t, http.MethodPost, "/api/v1/reviews", token, gin.H{
		"rating": 5,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

// Не-админ на админском маршруте получает 403 и для несуществующего
// отзыва: guard группы срабатывает раньше поиска записи.
func TestAdminRoutes_ForbiddenBeforeNotFound(t *testing.T) {
	env := setupTestEnv(t)
	_, userToken := env.createUser(t, "member", models.UserRoleUser)
	_, adminToken := env.createUser(t, "admin", models.UserRoleAdmin)

	missing := "/api/v1/admin/reviews/" + uuid.NewString()

	resp := env.request(t, http.MethodPost, missing+"/approve", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = env.request(t, http.MethodPost, missing+"/deny", userToken, gin.H{})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = env.request(t, http.MethodGet, "/api/v1/admin/reviews", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// Админ получает честный 404
	resp = env.request(t, http.MethodPost, missing+"/approve", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestPublicListing_OnlyApproved(t *testing.T) {
	env := setupTestEnv(t)
	_, userToken := env.createUser(t, "member", models.UserRoleUser)
	_, adminToken := env.createUser(t, "admin", models.UserRoleAdmin)

	approvedID := env.submitReview(t, userToken, 5, "approved one")
	env.submitReview(t, userToken, 5, "pending one")

	resp := env.request(t, http.MethodPost, "/api/v1/admin/reviews/"+approvedID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = env.request(t, http.MethodGet, "/api/v1/reviews", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	body := decodeBody(t, resp)
	reviews := body["reviews"].([]any)
	require.Len(t, reviews, 1)
	assert.Equal(t, approvedID, reviews[0].(map[string]any)["id"])
}

func TestDenyReview_WithReason(t *testing.T) {
	env := setupTestEnv(t)
	_, userToken := env.createUser(t, "member", models.UserRoleUser)
	_, adminToken := env.createUser(t, "admin", models.UserRoleAdmin)

	reviewID := env.submitReview(t, userToken, 4, "text")

	resp := env.request(t, http.MethodPost, "/api/v1/admin/reviews/"+reviewID+"/deny", adminToken, gin.H{
		"reason": "duplicate submission",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decodeBody(t, resp)
	assert.Equal(t, "denied", body["status"])
	assert.Equal(t, "duplicate submission", body["denial_reason"])
}

func TestRequestChanges_TransitionAndComment(t *testing.T) {
	env := setupTestEnv(t)
	_, userToken := env.createUser(t, "member", models.UserRoleUser)
	_, adminToken := env.createUser(t, "admin", models.UserRoleAdmin)

	reviewID := env.submitReview(t, userToken, 4, "text")

	resp := env.request(t, http.MethodPost, "/api/v1/admin/reviews/"+reviewID+"/request-changes", adminToken, gin.H{
		"comment": "Please add project name",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "changes_requested", decodeBody(t, resp)["status"])

	// Автор видит комментарий модератора в треде
	resp = env.request(t, http.MethodGet, "/api/v1/reviews/"+reviewID+"/comments", userToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	body := decodeBody(t, resp)
	comments := body["comments"].([]any)
	require.Len(t, comments, 1)
	comment := comments[0].(map[string]any)
	assert.Equal(t, "Please add project name", comment["body"])
	assert.Equal(t, "admin", comment["author_role"])
}

func TestCommentThread_ForbiddenForStranger(t *testing.T) {
	env := setupTestEnv(t)
	_, ownerToken := env.createUser(t, "owner", models.UserRoleUser)
	_, strangerToken := env.createUser(t, "stranger", models.UserRoleUser)

	reviewID := env.submitReview(t, ownerToken, 4, "mine")

	resp := env.request(t, http.MethodGet, "/api/v1/reviews/"+reviewID+"/comments", strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = env.request(t, http.MethodPost, "/api/v1/reviews/"+reviewID+"/comments", strangerToken, gin.H{
		"body": "hi",
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

// Удаление чужого отзыва и удаление несуществующего отвечают
// одинаковым 404: существование чужой записи не раскрывается.
func TestDeleteOwnReview_NoExistenceLeak(t *testing.T) {
	env := setupTestEnv(t)
	_, ownerToken := env.createUser(t, "owner", models.UserRoleUser)
	_, strangerToken := env.createUser(t, "stranger", models.UserRoleUser)

	reviewID := env.submitReview(t, ownerToken, 4, "mine")

	foreign := env.request(t, http.MethodDelete, "/api/v1/reviews/"+reviewID, strangerToken, nil)
	missing := env.request(t, http.MethodDelete, "/api/v1/reviews/"+uuid.NewString(), strangerToken, nil)

	assert.Equal(t, http.StatusNotFound, foreign.Code)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.JSONEq(t, missing.Body.String(), foreign.Body.String(), "тела ответов должны совпадать")

	// Владелец удаляет успешно
	resp := env.request(t, http.MethodDelete, "/api/v1/reviews/"+reviewID, ownerToken, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestFeaturedFlow(t *testing.T) {
	env := setupTestEnv(t)
	_, userToken := env.createUser(t, "member", models.UserRoleUser)
	_, adminToken := env.createUser(t, "admin", models.UserRoleAdmin)

	reviewID := env.submitReview(t, userToken, 5, "great")

	resp := env.request(t, http.MethodPost, "/api/v1/admin/reviews/"+reviewID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = env.request(t, http.MethodPut, "/api/v1/admin/reviews/"+reviewID+"/featured", adminToken, gin.H{
		"featured": true,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = env.request(t, http.MethodGet, "/api/v1/reviews/featured", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	body := decodeBody(t, resp)
	reviews := body["reviews"].([]any)
	require.Len(t, reviews, 1)
	assert.Equal(t, reviewID, reviews[0].(map[string]any)["id"])
}

func TestAdminReviews_StatusFilter(t *testing.T) {
	env := setupTestEnv(t)
	_, userToken := env.createUser(t, "member", models.UserRoleUser)
	_, adminToken := env.createUser(t, "admin", models.UserRoleAdmin)

	approvedID := env.submitReview(t, userToken, 5, "a")
	env.submitReview(t, userToken, 5, "b")

	resp := env.request(t, http.MethodPost, "/api/v1/admin/reviews/"+approvedID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = env.request(t, http.MethodGet, "/api/v1/admin/reviews?status=approved", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	body := decodeBody(t, resp)
	reviews := body["reviews"].([]any)
	require.Len(t, reviews, 1)
	assert.Equal(t, approvedID, reviews[0].(map[string]any)["id"])

	// Неизвестный статус отклоняется валидатором
	resp = env.request(t, http.MethodGet, "/api/v1/admin/reviews?status=bogus", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestModerationStatsEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	_, userToken := env.createUser(t, "member", models.UserRoleUser)
	_, adminToken := env.createUser(t, "admin", models.UserRoleAdmin)

	approvedID := env.submitReview(t, userToken, 5, "a")
	env.submitReview(t, userToken, 5, "b")

	resp := env.request(t, http.MethodPost, "/api/v1/admin/reviews/"+approvedID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = env.request(t, http.MethodGet, "/api/v1/admin/reviews/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	body := decodeBody(t, resp)
	assert.EqualValues(t, 2, body["total"])
	assert.EqualValues(t, 1, body["pending"])
	assert.EqualValues(t, 1, body["approved"])
}
