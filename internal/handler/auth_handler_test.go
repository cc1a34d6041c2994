package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/folio/internal/pkg/errcode"
	"github.com/xxxsen/folio/internal/session"
)

func findCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == session.CookieName {
			return cookie
		}
	}
	return nil
}

func TestAdminLoginFlow(t *testing.T) {
	env := setupRouter(t, setupOptions{})

	resp := env.doJSON(t, http.MethodPost, "/api/v1/admin/login", map[string]string{"password": "wrong"})
	result := decode(t, resp, nil)
	require.Equal(t, errcode.ErrUnauthorized, result.Code)
	require.Nil(t, findCookie(resp.Result()))

	resp = env.doJSON(t, http.MethodPost, "/api/v1/admin/login", map[string]string{"password": testPassword})
	var login struct {
		Success bool `json:"success"`
	}
	decode(t, resp, &login)
	require.True(t, login.Success)
	cookie := findCookie(resp.Result())
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, "/", cookie.Path)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	require.Equal(t, int(time.Hour/time.Second), cookie.MaxAge)

	withCookie := func(req *http.Request) { req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie.Value}) }
	var status struct {
		Authenticated bool `json:"authenticated"`
	}
	decode(t, env.do(t, http.MethodGet, "/api/v1/admin/login", nil, "", withCookie), &status)
	require.True(t, status.Authenticated)

	decode(t, env.do(t, http.MethodGet, "/api/v1/admin/login", nil, ""), &status)
	require.False(t, status.Authenticated)

	resp = env.do(t, http.MethodGet, "/api/v1/admin/projects", nil, "")
	require.Equal(t, errcode.ErrUnauthorized, decode(t, resp, nil).Code)

	resp = env.do(t, http.MethodGet, "/api/v1/admin/projects", nil, "", withCookie)
	require.NotEqual(t, errcode.ErrUnauthorized, decode(t, resp, nil).Code)

	resp = env.do(t, http.MethodPost, "/api/v1/admin/logout", nil, "")
	cleared := findCookie(resp.Result())
	require.NotNil(t, cleared)
	require.Empty(t, cleared.Value)
	require.Less(t, cleared.MaxAge, 0)
}

func TestAdminLoginFormEncoded(t *testing.T) {
	env := setupRouter(t, setupOptions{})
	resp := env.do(t, http.MethodPost, "/api/v1/admin/login", stringsReader("password="+testPassword), "application/x-www-form-urlencoded")
	decode(t, resp, nil)
	require.NotNil(t, findCookie(resp.Result()))
}

func TestAdminLoginRateLimited(t *testing.T) {
	env := setupRouter(t, setupOptions{loginLimit: time.Minute})
	resp := env.doJSON(t, http.MethodPost, "/api/v1/admin/login", map[string]string{"password": "wrong"})
	require.Equal(t, errcode.ErrUnauthorized, decode(t, resp, nil).Code)

	resp = env.doJSON(t, http.MethodPost, "/api/v1/admin/login", map[string]string{"password": testPassword})
	require.Equal(t, errcode.ErrTooMany, decode(t, resp, nil).Code)
	require.Nil(t, findCookie(resp.Result()))
}

func TestAdminRoutesRejectTamperedToken(t *testing.T) {
	env := setupRouter(t, setupOptions{})
	tampered := []byte(env.token)
	tampered[len(tampered)/2] ^= 0x01
	resp := env.do(t, http.MethodGet, "/api/v1/admin/shares?target_url=x", nil, "", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+string(tampered))
	})
	require.Equal(t, errcode.ErrUnauthorized, decode(t, resp, nil).Code)
}

func TestPropertiesEndpoint(t *testing.T) {
	env := setupRouter(t, setupOptions{})
	var out struct {
		AdminLogin string `json:"admin_login"`
		Properties struct {
			AdminPassword bool   `json:"admin_password"`
			FileStore     string `json:"file_store"`
		} `json:"properties"`
	}
	decode(t, env.do(t, http.MethodGet, "/api/v1/properties", nil, ""), &out)
	require.Equal(t, "ready", out.AdminLogin)
	require.True(t, out.Properties.AdminPassword)
	require.Equal(t, "local", out.Properties.FileStore)
}
