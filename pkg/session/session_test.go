package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundMintsSession(t *testing.T) {
	service := NewCookieSessionService()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, service.Bound(rec, req, 180*time.Second))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.Equal(t, 180, cookies[0].MaxAge)
}

func TestBoundReusesSession(t *testing.T) {
	service := NewCookieSessionService()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "existing-session"})
	require.NoError(t, service.Bound(rec, req, 180*time.Second))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "existing-session", cookies[0].Value)
	assert.Equal(t, 180, cookies[0].MaxAge)
}
