package models

// LoginRequest is the payload for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and basic user info
type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// LoginUser is the user info embedded in a login response
type LoginUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// RefreshResponse carries a re-issued token
type RefreshResponse struct {
	Token string `json:"token"`
}
