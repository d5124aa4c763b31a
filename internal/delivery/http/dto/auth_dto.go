package dto

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Username     string `json:"username" validate:"required"`
	Password     string `json:"password" validate:"required,min=8"`
	Confirmation string `json:"confirmation" validate:"required"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token string      `json:"token"`
	User  *UserOutput `json:"user"`
}

// ChangePasswordRequest represents the password change request payload
type ChangePasswordRequest struct {
	Old          string `json:"old" validate:"required"`
	New          string `json:"new" validate:"required,min=8"`
	Confirmation string `json:"confirmation" validate:"required"`
}

// UserOutput represents user details in API responses
type UserOutput struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Cash     string `json:"cash"`
}
