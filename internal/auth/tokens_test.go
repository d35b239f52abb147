package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte(strings.Repeat("k", 32))

func newTestTokens(t *testing.T) *Tokens {
	t.Helper()
	tok, err := NewTokens(testSecret)
	require.NoError(t, err)
	return tok
}

func TestNewTokens_WeakSecret(t *testing.T) {
	_, err := NewTokens([]byte("short"))
	assert.ErrorIs(t, err, ErrWeakSecret)
}

func TestIssueAndParseReset(t *testing.T) {
	tok := newTestTokens(t)
	raw, err := tok.IssueReset("user-1", time.Hour)
	require.NoError(t, err)

	claims, err := tok.Parse(raw, TokenTypeReset)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, TokenTypeReset, claims.Type)
	assert.NotEmpty(t, claims.ID)
}

func TestParse_WrongType(t *testing.T) {
	tok := newTestTokens(t)
	raw, err := tok.IssueSession("user-1", time.Hour)
	require.NoError(t, err)

	_, err = tok.Parse(raw, TokenTypeReset)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestParseResetAndSession(t *testing.T) {
	tok := newTestTokens(t)
	reset, err := tok.IssueReset("user-1", time.Hour)
	require.NoError(t, err)
	session, err := tok.IssueSession("user-1", time.Hour)
	require.NoError(t, err)

	claims, err := tok.ParseReset(reset)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	_, err = tok.ParseReset(session)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	claims, err = tok.ParseSession(session)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeSession, claims.Type)
	_, err = tok.ParseSession(reset)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestParse_Expired(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	issuer := newTestTokens(t).WithClock(func() time.Time { return past })
	raw, err := issuer.IssueReset("user-1", time.Hour)
	require.NoError(t, err)

	_, err = newTestTokens(t).Parse(raw, TokenTypeReset)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_BadSignature(t *testing.T) {
	other, err := NewTokens([]byte(strings.Repeat("x", 32)))
	require.NoError(t, err)
	raw, err := other.IssueReset("user-1", time.Hour)
	require.NoError(t, err)

	_, err = newTestTokens(t).Parse(raw, TokenTypeReset)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_RejectsNoneAlgAndGarbage(t *testing.T) {
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Type:   TokenTypeReset,
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tok := newTestTokens(t)
	for _, raw := range []string{"", "garbage", unsigned} {
		_, err := tok.Parse(raw, TokenTypeReset)
		assert.ErrorIs(t, err, ErrInvalidToken, raw)
	}
}

func TestParse_RequiresExpiry(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Type:   TokenTypeReset,
		UserID: "user-1",
	}).SignedString(testSecret)
	require.NoError(t, err)

	_, err = newTestTokens(t).Parse(raw, TokenTypeReset)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssue_Validation(t *testing.T) {
	tok := newTestTokens(t)
	_, err := tok.IssueReset("", time.Hour)
	assert.Error(t, err)
	_, err = tok.IssueReset("user-1", 0)
	assert.Error(t, err)
}
