package serverutils

import (
	"strings"
	"time"

	"insight-copilot-be/internal/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenVerifier is the contract consumed from the external credential
// collaborator: a token either resolves to a Principal or to nothing.
type TokenVerifier interface {
	Verify(token string) (*entity.Principal, error)
}

// JwtVerifier validates HMAC-signed bearer tokens and extracts the
// Principal from their claims.
type JwtVerifier struct {
	secret []byte
}

func NewJwtVerifier(secret string) *JwtVerifier {
	return &JwtVerifier{secret: []byte(secret)}
}

var _ TokenVerifier = (*JwtVerifier)(nil)

// StripBearer accepts either a raw token or a full Authorization header
// value and returns the bare token.
func StripBearer(headerOrToken string) string {
	if len(headerOrToken) > 7 && strings.EqualFold(headerOrToken[:7], "Bearer ") {
		return headerOrToken[7:]
	}
	return headerOrToken
}

func (v *JwtVerifier) Verify(tokenStr string) (*entity.Principal, error) {
	tokenStr = StripBearer(tokenStr)
	if tokenStr == "" {
		return nil, NewUnauthorizedError("Missing token")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, NewUnauthorizedError("Unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, NewUnauthorizedError("Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, NewUnauthorizedError("Invalid claims")
	}

	subject, err := claimUUID(claims, "sub")
	if err != nil {
		return nil, NewUnauthorizedError("Token missing subject")
	}
	orgId, err := claimUUID(claims, "org_id")
	if err != nil {
		return nil, NewUnauthorizedError("Token missing org_id")
	}

	role, _ := claims["role"].(string)
	if role == "" {
		return nil, NewUnauthorizedError("Token missing role")
	}

	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}

	return &entity.Principal{
		Subject:     subject,
		OrgId:       orgId,
		Role:        role,
		Permissions: claimStrings(claims, "perms"),
		Scope: entity.DataScope{
			EntityIds: claimStrings(claims, "entity_ids"),
			GeoCodes:  claimStrings(claims, "geo_codes"),
		},
		ExpiresAt: expiresAt,
	}, nil
}

func claimUUID(claims jwt.MapClaims, key string) (uuid.UUID, error) {
	s, _ := claims[key].(string)
	return uuid.Parse(s)
}

func claimStrings(claims jwt.MapClaims, key string) []string {
	raw, ok := claims[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
