package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floreboard/internal/storage"
)

func TestIssueAndParse(t *testing.T) {
	sm := SessionManager{Secret: []byte("test-secret")}

	token, expires, err := sm.Issue("Rose & Thorn")
	require.NoError(t, err)
	assert.True(t, expires.After(time.Now().Add(6*24*time.Hour)))

	claims, err := sm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "Rose & Thorn", claims.TenantName)
	assert.WithinDuration(t, expires, claims.ExpiresAt, time.Second)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	sm := SessionManager{Secret: []byte("test-secret")}

	token, _, err := sm.Issue("Petal Works")
	require.NoError(t, err)

	other, _, err := SessionManager{Secret: []byte("other-secret")}.Issue("Petal Works")
	require.NoError(t, err)

	// signature from a different secret
	forged := strings.Split(token, ".")[0] + "." + strings.Split(other, ".")[1]
	_, err = sm.Parse(forged)
	assert.Error(t, err)

	_, err = sm.Parse("garbage")
	assert.Error(t, err)
}

func TestIssueRequiresSecret(t *testing.T) {
	_, _, err := SessionManager{}.Issue("Anything")
	assert.Error(t, err)
}

func TestLoginPersistsShopNameAndSetsCookie(t *testing.T) {
	store := storage.NewInMemoryStore()
	sm := SessionManager{Secret: []byte("test-secret")}
	handler := Handler{Store: store, Sessions: sm}

	body, _ := json.Marshal(map[string]string{"storeName": "Bloom County"})
	req := httptest.NewRequest(http.MethodPost, "/api/session", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var tenant Tenant
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tenant))
	assert.Equal(t, "Bloom County", tenant.Name)
	assert.NotEmpty(t, tenant.ID)

	payload, err := store.GetSlot(context.Background(), storage.SlotTenantName)
	require.NoError(t, err)
	assert.Equal(t, `"Bloom County"`, string(payload))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session_token", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	claims, err := sm.Parse(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "Bloom County", claims.TenantName)
}

func TestLoginRejectsBlankName(t *testing.T) {
	handler := Handler{Store: storage.NewInMemoryStore(), Sessions: SessionManager{Secret: []byte("s")}}

	body, _ := json.Marshal(map[string]string{"storeName": "   "})
	req := httptest.NewRequest(http.MethodPost, "/api/session", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutClearsSession(t *testing.T) {
	store := storage.NewInMemoryStore()
	require.NoError(t, store.SetSlot(context.Background(), storage.SlotTenantName, []byte(`"Old Shop"`)))
	handler := Handler{Store: store, Sessions: SessionManager{Secret: []byte("s")}}

	req := httptest.NewRequest(http.MethodDelete, "/api/session", nil)
	rec := httptest.NewRecorder()

	handler.Logout(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err := store.GetSlot(context.Background(), storage.SlotTenantName)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestInjectTenantMiddleware(t *testing.T) {
	sm := SessionManager{Secret: []byte("test-secret")}
	token, exp, err := sm.Issue("Fern & Co")
	require.NoError(t, err)

	var captured Tenant
	var present bool
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		captured, present = TenantFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	cookie := sm.cookie(token, exp)
	req.AddCookie(&cookie)
	rec := httptest.NewRecorder()

	Middleware{Sessions: sm}.InjectTenant(next).ServeHTTP(rec, req)

	require.True(t, present)
	assert.Equal(t, "Fern & Co", captured.Name)
}

func TestInjectTenantClearsBadCookie(t *testing.T) {
	sm := SessionManager{Secret: []byte("test-secret")}

	var present bool
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, present = TenantFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "not-a-token"})
	rec := httptest.NewRecorder()

	Middleware{Sessions: sm}.InjectTenant(next).ServeHTTP(rec, req)

	assert.False(t, present)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestMeRequiresSession(t *testing.T) {
	handler := Handler{Store: storage.NewInMemoryStore(), Sessions: SessionManager{Secret: []byte("s")}}

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	rec := httptest.NewRecorder()
	handler.Me(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = req.WithContext(WithTenant(req.Context(), Tenant{Name: "Fern & Co"}))
	rec = httptest.NewRecorder()
	handler.Me(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Fern & Co")
}
