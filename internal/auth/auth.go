package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"floreboard/internal/storage"
)

type contextKey string

const tenantContextKey contextKey = "auth/tenant"

// Tenant is the florist shop currently signed in. The original product has
// no passwords: a shop identifies itself by name only.
type Tenant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SessionManager signs and validates lightweight session tokens.
type SessionManager struct {
	Secret       []byte
	Duration     time.Duration
	CookieName   string
	SecureCookie bool
}

// Claims captures decoded session data.
type Claims struct {
	TenantName string
	ExpiresAt  time.Time
}

// Handler exposes tenant session endpoints.
type Handler struct {
	Store    storage.Store
	Sessions SessionManager
}

type loginRequest struct {
	StoreName string `json:"storeName"`
}

// Login handles POST /api/session. It persists the shop name and sets the
// session cookie.
func (h Handler) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := decodeJSON(r, &payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(payload.StoreName)
	if name == "" {
		http.Error(w, "storeName is required", http.StatusBadRequest)
		return
	}

	if err := h.Store.SetSlot(r.Context(), storage.SlotTenantName, []byte(strconv.Quote(name))); err != nil {
		http.Error(w, "could not persist session", http.StatusInternalServerError)
		return
	}

	token, exp, err := h.Sessions.Issue(name)
	if err != nil {
		http.Error(w, "could not create session", http.StatusInternalServerError)
		return
	}
	cookie := h.Sessions.cookie(token, exp)
	http.SetCookie(w, &cookie)

	_ = jsonResponse(w, http.StatusOK, Tenant{ID: uuid.NewString(), Name: name})
}

// Logout handles DELETE /api/session: clears the persisted shop name and
// expires the cookie.
func (h Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteSlot(r.Context(), storage.SlotTenantName); err != nil && !errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "could not clear session", http.StatusInternalServerError)
		return
	}
	cookie := h.Sessions.expiredCookie()
	http.SetCookie(w, &cookie)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the current tenant.
func (h Handler) Me(w http.ResponseWriter, r *http.Request) {
	tenant, ok := TenantFromContext(r.Context())
	if !ok {
		http.Error(w, "no active session", http.StatusUnauthorized)
		return
	}
	_ = jsonResponse(w, http.StatusOK, tenant)
}

// Middleware attaches the tenant to the request context when a valid
// session cookie exists.
type Middleware struct {
	Sessions SessionManager
}

// InjectTenant parses the session cookie (if present) and loads the tenant
// into context.
func (m Middleware) InjectTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.Sessions.cookieName())
		if err == nil && cookie.Value != "" {
			if claims, err := m.Sessions.Parse(cookie.Value); err == nil && claims.ExpiresAt.After(time.Now()) {
				r = r.WithContext(WithTenant(r.Context(), Tenant{Name: claims.TenantName}))
			} else if err != nil {
				// Clear unusable cookies to avoid loops.
				clear := m.Sessions.expiredCookie()
				http.SetCookie(w, &clear)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Parse validates a token and returns session claims.
func (sm SessionManager) Parse(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return Claims{}, errors.New("invalid token format")
	}
	payload := parts[0]
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("decode signature: %w", err)
	}

	mac := hmac.New(sha256.New, sm.Secret)
	mac.Write([]byte(payload))
	if !hmac.Equal(mac.Sum(nil), sig) {
		return Claims{}, errors.New("signature mismatch")
	}

	payloadParts := strings.Split(payload, "|")
	if len(payloadParts) != 2 {
		return Claims{}, errors.New("invalid payload")
	}
	name, err := base64.RawURLEncoding.DecodeString(payloadParts[0])
	if err != nil {
		return Claims{}, fmt.Errorf("decode tenant name: %w", err)
	}
	expUnix, err := strconv.ParseInt(payloadParts[1], 10, 64)
	if err != nil {
		return Claims{}, fmt.Errorf("parse expiry: %w", err)
	}
	return Claims{TenantName: string(name), ExpiresAt: time.Unix(expUnix, 0)}, nil
}

// Issue builds a signed session token for the given tenant name.
func (sm SessionManager) Issue(tenantName string) (string, time.Time, error) {
	if len(sm.Secret) == 0 {
		return "", time.Time{}, errors.New("session secret missing")
	}
	expires := time.Now().Add(sm.sessionDuration())
	payload := fmt.Sprintf("%s|%d", base64.RawURLEncoding.EncodeToString([]byte(tenantName)), expires.Unix())
	mac := hmac.New(sha256.New, sm.Secret)
	mac.Write([]byte(payload))
	sig := mac.Sum(nil)
	token := payload + "." + base64.RawURLEncoding.EncodeToString(sig)
	return token, expires, nil
}

// WithTenant stores the tenant in context.
func WithTenant(ctx context.Context, tenant Tenant) context.Context {
	return context.WithValue(ctx, tenantContextKey, tenant)
}

// TenantFromContext extracts the tenant from context if present.
func TenantFromContext(ctx context.Context) (Tenant, bool) {
	tenant, ok := ctx.Value(tenantContextKey).(Tenant)
	return tenant, ok
}

func (sm SessionManager) cookie(token string, expires time.Time) http.Cookie {
	return http.Cookie{
		Name:     sm.cookieName(),
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   sm.SecureCookie,
	}
}

func (sm SessionManager) expiredCookie() http.Cookie {
	return http.Cookie{
		Name:     sm.cookieName(),
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   sm.SecureCookie,
	}
}

func (sm SessionManager) cookieName() string {
	if sm.CookieName != "" {
		return sm.CookieName
	}
	return "session_token"
}

func (sm SessionManager) sessionDuration() time.Duration {
	if sm.Duration <= 0 {
		return 7 * 24 * time.Hour
	}
	return sm.Duration
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func jsonResponse(w http.ResponseWriter, status int, payload any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}
