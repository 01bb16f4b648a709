package models

// User is the identity the upstream auth service encodes into the JWT. The
// storefront edge never stores credentials; it only reads the token.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
