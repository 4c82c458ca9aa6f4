package serverutils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims(subject, orgId uuid.UUID) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":        subject.String(),
		"org_id":     orgId.String(),
		"role":       "analyst",
		"perms":      []string{"metrics:read", "reports:read"},
		"entity_ids": []string{"store-001"},
		"geo_codes":  []string{"US-CA"},
		"exp":        time.Now().Add(time.Hour).Unix(),
	}
}

func TestVerifyValidToken(t *testing.T) {
	verifier := NewJwtVerifier(testSecret)
	subject := uuid.New()
	orgId := uuid.New()

	principal, err := verifier.Verify(signToken(t, validClaims(subject, orgId), testSecret))
	require.NoError(t, err)

	assert.Equal(t, subject, principal.Subject)
	assert.Equal(t, orgId, principal.OrgId)
	assert.Equal(t, "analyst", principal.Role)
	assert.Equal(t, []string{"metrics:read", "reports:read"}, principal.Permissions)
	assert.Equal(t, []string{"store-001"}, principal.Scope.EntityIds)
	assert.Equal(t, []string{"US-CA"}, principal.Scope.GeoCodes)
}

func TestVerifyStripsBearerPrefix(t *testing.T) {
	verifier := NewJwtVerifier(testSecret)
	token := signToken(t, validClaims(uuid.New(), uuid.New()), testSecret)

	_, err := verifier.Verify("Bearer " + token)
	assert.NoError(t, err)
}

func TestVerifyExpiredToken(t *testing.T) {
	verifier := NewJwtVerifier(testSecret)
	claims := validClaims(uuid.New(), uuid.New())
	claims["exp"] = time.Now().Add(-time.Hour).Unix()

	_, err := verifier.Verify(signToken(t, claims, testSecret))
	require.Error(t, err)
	assert.Equal(t, CodeUnauthorized, AsAppError(err).Code)
}

func TestVerifyWrongSecret(t *testing.T) {
	verifier := NewJwtVerifier(testSecret)
	token := signToken(t, validClaims(uuid.New(), uuid.New()), "other-secret")

	_, err := verifier.Verify(token)
	assert.Error(t, err)
}

func TestVerifyMissingClaims(t *testing.T) {
	verifier := NewJwtVerifier(testSecret)

	tests := []struct {
		name   string
		mutate func(jwt.MapClaims)
	}{
		{"missing sub", func(c jwt.MapClaims) { delete(c, "sub") }},
		{"missing org_id", func(c jwt.MapClaims) { delete(c, "org_id") }},
		{"missing role", func(c jwt.MapClaims) { delete(c, "role") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := validClaims(uuid.New(), uuid.New())
			tt.mutate(claims)

			_, err := verifier.Verify(signToken(t, claims, testSecret))
			assert.Error(t, err)
		})
	}
}

func TestVerifyEmptyToken(t *testing.T) {
	verifier := NewJwtVerifier(testSecret)

	_, err := verifier.Verify("")
	assert.Error(t, err)

	_, err = verifier.Verify("not-a-jwt")
	assert.Error(t, err)
}
