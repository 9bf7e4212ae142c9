package dto

// LoginRequest carries sign-in credentials: password for admins, PIN for
// cashiers.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Secret   string `json:"secret" binding:"required"`
}

// RegisterRequest creates a new account (admin-only).
type RegisterRequest struct {
	Username    string `json:"username" binding:"required"`
	DisplayName string `json:"displayName" binding:"required"`
	Role        string `json:"role" binding:"required"`
	Secret      string `json:"secret" binding:"required,min=4"`
}
