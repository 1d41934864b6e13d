package models

// Customer represents a workshop customer account.
type Customer struct {
	UserID  int    `json:"userId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

// Credentials is the generated login pair created when staff register an
// account on a walk-in customer's behalf. The operator must hand it to the
// customer; it is never created silently.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for POST /api/auth/register. The endpoint
// is unauthenticated; the credential pair travels inside the payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address,omitempty"`
	Role     string `json:"role"`
}
