package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mockview_backend/internal/config"
	"mockview_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSessionConfig = &config.SessionConfig{
	Secret:     "test-secret-test-secret-test-secret",
	CookieName: "mockview_session",
	TTL:        time.Hour,
}

func newSessionRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", mw, func(c *gin.Context) {
		c.String(http.StatusOK, util.GetSessionID(c))
	})
	r.POST("/issue", func(c *gin.Context) {
		token, err := IssueSessionToken(c, testSessionConfig, "issued-session")
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, token)
	})
	return r
}

func validToken(t *testing.T, sessionID string) string {
	t.Helper()
	token, err := util.GenerateSessionToken(sessionID, testSessionConfig.Secret, time.Hour)
	require.NoError(t, err)
	return token
}

func TestSessionMiddleware(t *testing.T) {
	r := newSessionRouter(SessionMiddleware(testSessionConfig))

	tests := []struct {
		name       string
		setup      func(req *http.Request)
		wantStatus int
		wantBody   string
	}{
		{"missing token", func(req *http.Request) {}, http.StatusUnauthorized, ""},
		{"bearer header", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+validToken(t, "s-header"))
		}, http.StatusOK, "s-header"},
		{"cookie", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "mockview_session", Value: validToken(t, "s-cookie")})
		}, http.StatusOK, "s-cookie"},
		{"garbage token", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer not-a-jwt")
		}, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			tt.setup(req)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestTrySessionMiddleware(t *testing.T) {
	r := newSessionRouter(TrySessionMiddleware(testSessionConfig))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer broken")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestIssueSessionToken(t *testing.T) {
	r := newSessionRouter(TrySessionMiddleware(testSessionConfig))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/issue", nil))
	require.Equal(t, http.StatusOK, w.Code)

	claims, err := util.ParseSessionToken(w.Body.String(), testSessionConfig.Secret)
	require.NoError(t, err)
	assert.Equal(t, "issued-session", claims.SessionID)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "mockview_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 3600, cookies[0].MaxAge)
}
