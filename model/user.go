package model

// AuthUser is the verified identity attached to a request by the auth
// middleware. The identity provider owns the full user record; this is the
// hand-off it signs into the token.
type AuthUser struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
}

// UserProfile is the slice of the identity provider's user record this
// service consults: role snapshot, delivery eligibility and the welcome
// idempotency flag.
type UserProfile struct {
	ID                        string `db:"id"`
	FirstName                 string `db:"first_name"`
	LastName                  string `db:"last_name"`
	Email                     string `db:"email"`
	Role                      Role   `db:"role"`
	IsActive                  bool   `db:"is_active"`
	IsVerified                bool   `db:"is_verified"`
	HasReceivedWelcomeMessage bool   `db:"has_received_welcome_message"`
}
