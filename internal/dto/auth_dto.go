package dto

// LoginRequest is the credential payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the authenticated account plus its bearer token.
type LoginResponse struct {
	User      AccountResponse `json:"user"`
	Token     string          `json:"token"`
	ExpiresIn int64           `json:"expires_in"`
}

// VerifyResponse confirms that a presented token maps to a live account.
type VerifyResponse struct {
	Valid bool            `json:"valid"`
	User  AccountResponse `json:"user"`
}
