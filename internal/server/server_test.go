package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"wingman/internal/assets"
	"wingman/internal/auth"
	"wingman/internal/config"
	"wingman/internal/models"
	"wingman/internal/store"
	"wingman/internal/tests/mocks"
)

var testSecret = []byte(strings.Repeat("s", 32))

func testConfig() config.ServerConfig {
	return config.ServerConfig{
		Addr:          ":0",
		Env:           "development",
		ResetTokenTTL: time.Hour,
		SessionTTL:    time.Hour,
		BcryptCost:    bcrypt.MinCost,
	}
}

func newTestServer(t *testing.T, st store.Store, cfg config.ServerConfig) (*Server, *auth.Tokens) {
	t.Helper()
	tokens, err := auth.NewTokens(testSecret)
	require.NoError(t, err)
	s, err := New(Options{Store: st, Tokens: tokens, Config: cfg, Logger: zap.NewNop()})
	require.NoError(t, err)
	return s, tokens
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("content-type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	_, err := time.Parse(time.RFC3339, env.Timestamp)
	require.NoError(t, err, "timestamp must be RFC3339")
	return env
}

func resetBody(token, password string) string {
	b, _ := json.Marshal(map[string]string{"token": token, "password": password})
	return string(b)
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
	_, err = New(Options{Store: &mocks.StoreMock{}})
	assert.Error(t, err)
}

func TestLogout_ClearsCookie(t *testing.T) {
	s, _ := newTestServer(t, &mocks.StoreMock{}, testConfig())

	rec := do(t, s.Handler(), http.MethodPost, "/api/logout", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Message)

	raw := rec.Header().Get("Set-Cookie")
	assert.Contains(t, raw, "auth-token=;")
	assert.Contains(t, raw, "Max-Age=0")
	assert.Contains(t, raw, "HttpOnly")
	assert.Contains(t, raw, "SameSite=Strict")
	assert.NotContains(t, raw, "Secure")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].Expires.Before(time.Now()))
}

func TestLogout_SecureInProduction(t *testing.T) {
	cfg := testConfig()
	cfg.Env = "production"
	s, _ := newTestServer(t, &mocks.StoreMock{}, cfg)

	rec := do(t, s.Handler(), http.MethodPost, "/api/logout", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Secure")
}

func TestLogout_Idempotent(t *testing.T) {
	s, tokens := newTestServer(t, &mocks.StoreMock{}, testConfig())
	session, err := tokens.IssueSession("user-1", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: authCookieName, Value: session})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s.Handler(), http.MethodPost, "/api/logout", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecover_ReturnsEnvelope(t *testing.T) {
	s, _ := newTestServer(t, &mocks.StoreMock{}, testConfig())
	s.router.Post("/api/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := do(t, s.Handler(), http.MethodPost, "/api/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "An unexpected error occurred", env.Error)
}

func TestResetPassword_Validation(t *testing.T) {
	s, tokens := newTestServer(t, &mocks.StoreMock{}, testConfig())
	valid, err := tokens.IssueReset("user-1", time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name string
		body string
		want string
	}{
		{"malformed", "{", "Invalid request body"},
		{"missing token", resetBody("", "ValidPass1"), "Token and password are required"},
		{"missing password", resetBody(valid, ""), "Token and password are required"},
		{"too short", resetBody(valid, "short1"), "Password must be at least 8 characters long"},
		{"no uppercase", resetBody(valid, "alllowercase1"), "Password must contain at least one uppercase letter"},
		{"no digit", resetBody(valid, "NoDigitsHere"), "Password must contain at least one number"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s.Handler(), http.MethodPost, "/api/reset-password", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
			assert.Equal(t, tc.want, env.Error)
		})
	}
}

func TestResetPassword_RejectsBadTokens(t *testing.T) {
	called := false
	st := &mocks.StoreMock{
		UpdatePasswordHashFunc: func(ctx context.Context, userID, hash string) (int64, error) {
			called = true
			return 1, nil
		},
	}
	s, tokens := newTestServer(t, st, testConfig())

	session, err := tokens.IssueSession("user-1", time.Hour)
	require.NoError(t, err)
	expired, err := tokens.WithClock(func() time.Time { return time.Now().Add(-3 * time.Hour) }).
		IssueReset("user-1", time.Hour)
	require.NoError(t, err)
	other, err := auth.NewTokens([]byte(strings.Repeat("o", 32)))
	require.NoError(t, err)
	forged, err := other.IssueReset("user-1", time.Hour)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"session type": session,
		"expired":      expired,
		"bad sig":      forged,
		"garbage":      "not-a-token",
	} {
		rec := do(t, s.Handler(), http.MethodPost, "/api/reset-password", resetBody(tok, "ValidPass1"))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
		assert.False(t, decodeEnvelope(t, rec).Success, name)
	}
	assert.False(t, called)
}

func TestResetPassword_ZeroRowsIs500(t *testing.T) {
	st := &mocks.StoreMock{
		UpdatePasswordHashFunc: func(ctx context.Context, userID, hash string) (int64, error) {
			return 0, nil
		},
	}
	s, tokens := newTestServer(t, st, testConfig())
	tok, err := tokens.IssueReset("ghost", time.Hour)
	require.NoError(t, err)

	rec := do(t, s.Handler(), http.MethodPost, "/api/reset-password", resetBody(tok, "ValidPass1"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to reset password", decodeEnvelope(t, rec).Error)
}

func TestResetPassword_StoreErrorIs500(t *testing.T) {
	st := &mocks.StoreMock{
		UpdatePasswordHashFunc: func(ctx context.Context, userID, hash string) (int64, error) {
			return 0, errors.New("connection refused")
		},
	}
	s, tokens := newTestServer(t, st, testConfig())
	tok, err := tokens.IssueReset("user-1", time.Hour)
	require.NoError(t, err)

	rec := do(t, s.Handler(), http.MethodPost, "/api/reset-password", resetBody(tok, "ValidPass1"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestResetPassword_UpdatesHash(t *testing.T) {
	var gotUser, gotHash string
	st := &mocks.StoreMock{
		UpdatePasswordHashFunc: func(ctx context.Context, userID, hash string) (int64, error) {
			gotUser, gotHash = userID, hash
			return 1, nil
		},
	}
	s, tokens := newTestServer(t, st, testConfig())
	tok, err := tokens.IssueReset("user-1", time.Hour)
	require.NoError(t, err)

	rec := do(t, s.Handler(), http.MethodPost, "/api/reset-password", resetBody(tok, "ValidPass1"))
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "Password has been reset successfully", env.Message)

	assert.Equal(t, "user-1", gotUser)
	assert.True(t, auth.VerifyPassword("ValidPass1", gotHash))
}

func TestProviders_StoreFailureIs500(t *testing.T) {
	st := &mocks.StoreMock{
		ListProvidersFunc: func(ctx context.Context) ([]models.Provider, error) {
			return nil, errors.New("database is locked")
		},
	}
	s, _ := newTestServer(t, st, testConfig())

	rec := do(t, s.Handler(), http.MethodGet, "/api/providers", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Failed to fetch providers", body["error"])
}

func TestProviders_DefaultFailureIs500(t *testing.T) {
	st := &mocks.StoreMock{
		DefaultProviderFunc: func(ctx context.Context) (*models.Provider, error) {
			return nil, errors.New("boom")
		},
	}
	s, _ := newTestServer(t, st, testConfig())

	rec := do(t, s.Handler(), http.MethodGet, "/api/providers", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestProviders_NoDefault(t *testing.T) {
	s, _ := newTestServer(t, &mocks.StoreMock{}, testConfig())

	rec := do(t, s.Handler(), http.MethodGet, "/api/providers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"providers":[],"defaultProvider":null}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, &mocks.StoreMock{}, testConfig())
	rec := do(t, s.Handler(), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","database":"Mock"}`, rec.Body.String())

	down, _ := newTestServer(t, &mocks.StoreMock{
		PingFunc: func(ctx context.Context) error { return errors.New("down") },
	}, testConfig())
	rec = do(t, down.Handler(), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	s, _ := newTestServer(t, &mocks.StoreMock{}, testConfig())

	rec := do(t, s.Handler(), http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s.Handler(), http.MethodGet, "/api/logout", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	cfg := testConfig()
	cfg.CORSOrigins = []string{"http://localhost:5173"}
	s, _ := newTestServer(t, &mocks.StoreMock{}, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

// End to end against the SQLite store: login, forgot, reset, login again.
func TestPasswordResetFlow_SQLite(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	catalog, err := assets.Providers()
	require.NoError(t, err)
	require.NoError(t, st.SeedProviders(ctx, catalog))

	hash, err := auth.HashPassword("OldPass123", bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, st.CreateUser(ctx, &models.User{Email: "ada@example.com", Name: "Ada", PasswordHash: hash}))

	s, _ := newTestServer(t, st, testConfig())
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/api/login", `{"email":"ada@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/login", `{"email":"ada@example.com","password":"OldPass123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "auth-token=")

	rec = do(t, h, http.MethodPost, "/api/forgot-password", `{"email":"nobody@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var unknown forgotPasswordResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &unknown))
	assert.Empty(t, unknown.ResetToken)

	rec = do(t, h, http.MethodPost, "/api/forgot-password", `{"email":"ada@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var forgot forgotPasswordResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &forgot))
	require.NotEmpty(t, forgot.ResetToken)
	assert.Equal(t, unknown.Message, forgot.Message)

	rec = do(t, h, http.MethodPost, "/api/reset-password", resetBody(forgot.ResetToken, "NewPass123"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/login", `{"email":"ada@example.com","password":"OldPass123"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/login", `{"email":"ada@example.com","password":"NewPass123"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/providers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listing models.ProviderListing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Len(t, listing.Providers, len(catalog))
	require.NotNil(t, listing.DefaultProvider)
	assert.Equal(t, "openai", listing.DefaultProvider.ID)
}

func TestForgotPassword_HidesTokenInProduction(t *testing.T) {
	cfg := testConfig()
	cfg.Env = "production"
	st := &mocks.StoreMock{
		GetUserByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "user-1", Email: email}, nil
		},
	}
	s, _ := newTestServer(t, st, cfg)

	rec := do(t, s.Handler(), http.MethodPost, "/api/forgot-password", `{"email":"ada@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "resetToken")
}
