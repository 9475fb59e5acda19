package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pratomobowo/pasarantar-sub000/pkg/enums"
)

// AccessTokenClaims represents the typed JWT presented by clients. Token
// issuance happens outside this service; we only verify.
type AccessTokenClaims struct {
	CustomerID uuid.UUID       `json:"customer_id"`
	Role       enums.ActorRole `json:"role"`
	jwt.RegisteredClaims
}
