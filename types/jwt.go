package types

import "github.com/golang-jwt/jwt/v5"

// Claims represents the JWT claims. The engine trusts this identity as-is;
// issuing and verifying tokens is a boundary concern, not marketplace logic.
type Claims struct {
	ActorID string `json:"actor_id"`
	Name    string `json:"name"`
	Role    string `json:"role"` // requester, provider, admin
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	jwt.RegisteredClaims
}
