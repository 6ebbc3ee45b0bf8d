package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/blognest/backend/internal/models"
	"github.com/blognest/backend/internal/router"
	"github.com/blognest/backend/pkg/cloudinary"
	"github.com/blognest/backend/pkg/config"
	"github.com/blognest/backend/validators"
	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
	storage := cloudinary.NewClient("test-cloud", "test-key", "test-secret")

	e := echo.New()
	router.SetupMiddleware(e)
	require.NoError(t, router.SetupRoutes(e, db, cfg, storage, zap.NewNop()))
	e.Validator = validators.NewValidator()
	return e, db
}

type request struct {
	method  string
	path    string
	body    string
	token   string
	cookies []*http.Cookie
}

func do(e *echo.Echo, r request) *httptest.ResponseRecorder {
	var body *strings.Reader
	if r.body != "" {
		body = strings.NewReader(r.body)
	} else {
		body = strings.NewReader("")
	}

	req := httptest.NewRequest(r.method, r.path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if r.token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+r.token)
	}
	for _, cookie := range r.cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func registerAndLogin(t *testing.T, e *echo.Echo, username, email string) (token string, userID uint) {
	t.Helper()

	rec := do(e, request{
		method: http.MethodPost,
		path:   "/api/v1/auth/register",
		body:   fmt.Sprintf(`{"username":%q,"email":%q,"password":"password123"}`, username, email),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)

	rec = do(e, request{
		method: http.MethodPost,
		path:   "/api/v1/auth/login",
		body:   fmt.Sprintf(`{"email":%q,"password":"password123"}`, email),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)

	return body["access_token"].(string), uint(created["id"].(float64))
}

func createSuperuser(t *testing.T, db *gorm.DB) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("adminpass123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		Username:       "admin",
		Email:          "admin@x.com",
		HashedPassword: string(hash),
		IsActive:       true,
		IsSuperuser:    true,
	}).Error)
}

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "refresh_token" {
			return cookie
		}
	}
	t.Fatal("refresh_token cookie not set")
	return nil
}

func TestLoginSetsRefreshCookieOnly(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, request{
		method: http.MethodPost,
		path:   "/api/v1/auth/register",
		body:   `{"username":"alice","email":"a@x.com","password":"password123"}`,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(e, request{
		method: http.MethodPost,
		path:   "/api/v1/auth/login",
		body:   `{"email":"a@x.com","password":"password123"}`,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "bearer", body["token_type"])
	assert.NotEmpty(t, body["access_token"])
	// the refresh token travels only in the cookie, never in the body
	assert.NotContains(t, body, "refresh_token")

	cookie := refreshCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.NotEmpty(t, cookie.Value)
}

func TestLoginBadCredentialsIndistinguishable(t *testing.T) {
	e, _ := newTestServer(t)
	registerAndLogin(t, e, "alice", "a@x.com")

	unknown := do(e, request{
		method: http.MethodPost,
		path:   "/api/v1/auth/login",
		body:   `{"email":"nobody@x.com","password":"password123"}`,
	})
	wrong := do(e, request{
		method: http.MethodPost,
		path:   "/api/v1/auth/login",
		body:   `{"email":"a@x.com","password":"wrongpassword"}`,
	})

	assert.Equal(t, http.StatusBadRequest, unknown.Code)
	assert.Equal(t, http.StatusBadRequest, wrong.Code)
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
}

func TestRefreshAndDeactivationFlow(t *testing.T) {
	e, db := newTestServer(t)
	createSuperuser(t, db)

	rec := do(e, request{
		method: http.MethodPost,
		path:   "/api/v1/auth/register",
		body:   `{"username":"alice","email":"a@x.com","password":"password123"}`,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	aliceID := uint(decode(t, rec)["id"].(float64))

	rec = do(e, request{
		method: http.MethodPost,
		path:   "/api/v1/auth/login",
		body:   `{"email":"a@x.com","password":"password123"}`,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := refreshCookie(t, rec)

	// the cookie mints a fresh access token for the same subject
	rec = do(e, request{
		method:  http.MethodPost,
		path:    "/api/v1/auth/token/refresh",
		cookies: []*http.Cookie{{Name: cookie.Name, Value: cookie.Value}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	access := decode(t, rec)["access"].(string)

	rec = do(e, request{method: http.MethodGet, path: "/api/v1/blogs/", token: access})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// superuser deactivates alice
	rec = do(e, request{
		method: http.MethodPost,
		path:   "/api/v1/auth/login",
		body:   `{"email":"admin@x.com","password":"adminpass123"}`,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	adminToken := decode(t, rec)["access_token"].(string)

	rec = do(e, request{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/api/v1/admin/users/%d/toggle-active", aliceID),
		token:  adminToken,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// subsequent login fails with the inactive-account error
	rec = do(e, request{
		method: http.MethodPost,
		path:   "/api/v1/auth/login",
		body:   `{"email":"a@x.com","password":"password123"}`,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Inactive user", decode(t, rec)["detail"])
}

func TestBlogPatchAuthorOnly(t *testing.T) {
	e, _ := newTestServer(t)
	aliceToken, _ := registerAndLogin(t, e, "alice", "a@x.com")
	bobToken, _ := registerAndLogin(t, e, "bob", "b@x.com")

	rec := do(e, request{
		method: http.MethodPost,
		path:   "/api/v1/blogs/",
		body:   `{"title":"hello","content":"first post"}`,
		token:  aliceToken,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	blogID := uint(decode(t, rec)["id"].(float64))

	rec = do(e, request{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/api/v1/blogs/%d", blogID),
		body:   `{"title":"hijacked"}`,
		token:  bobToken,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, request{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/api/v1/blogs/%d", blogID),
		body:   `{"title":"updated"}`,
		token:  aliceToken,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "updated", body["title"])
	// unsupplied fields stay as they were
	assert.Equal(t, "first post", body["content"])
}

func TestMarkSeenAndLikeRoutes(t *testing.T) {
	e, _ := newTestServer(t)
	aliceToken, _ := registerAndLogin(t, e, "alice", "a@x.com")
	bobToken, _ := registerAndLogin(t, e, "bob", "b@x.com")

	rec := do(e, request{
		method: http.MethodPost,
		path:   "/api/v1/blogs/",
		body:   `{"title":"hello","content":"first post"}`,
		token:  aliceToken,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	blogID := uint(decode(t, rec)["id"].(float64))

	path := fmt.Sprintf("/api/v1/blogs/%d/mark-seen", blogID)
	rec = do(e, request{method: http.MethodPost, path: path, token: bobToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(1), decode(t, rec)["read_count"])

	rec = do(e, request{method: http.MethodPost, path: path, token: bobToken})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Already seen", body["message"])
	assert.Equal(t, float64(1), body["read_count"])

	rec = do(e, request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/api/v1/blogs/%d/like", blogID),
		token:  bobToken,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = decode(t, rec)
	assert.Equal(t, float64(1), body["likes"])
	interaction := body["interaction"].(map[string]interface{})
	assert.Equal(t, true, interaction["liked"])
}

func TestAdminEndpointsRequireSuperuser(t *testing.T) {
	e, _ := newTestServer(t)
	aliceToken, aliceID := registerAndLogin(t, e, "alice", "a@x.com")

	rec := do(e, request{method: http.MethodGet, path: "/api/v1/admin/users", token: aliceToken})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, request{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/api/v1/admin/users/%d/toggle-active", aliceID),
		token:  aliceToken,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, request{method: http.MethodGet, path: "/api/v1/blogs/"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "detail")
}

func TestLogoutClearsCookie(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, request{method: http.MethodPost, path: "/api/v1/auth/logout"})
	require.Equal(t, http.StatusOK, rec.Code)

	cookie := refreshCookie(t, rec)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.Expires.Before(time.Now()))
}
