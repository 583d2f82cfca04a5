package model

// User is the authenticated account profile.
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Gender      string `json:"gender,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
}

// Roles known to the platform.
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// LoginRequest is the credential payload for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=64"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Gender      string `json:"gender" binding:"omitempty,oneof=Male Female Other"`
	DateOfBirth string `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
}

// AuthResponse carries the bearer token and the account it belongs to.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ForgotPasswordRequest starts the OTP reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyOTPRequest checks a reset OTP without consuming it.
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

// ResetPasswordRequest consumes an OTP and sets a new password.
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=6"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// UpdateProfileRequest edits the caller's own profile.
type UpdateProfileRequest struct {
	Username    string `json:"username,omitempty" binding:"omitempty,min=3,max=64"`
	Gender      string `json:"gender,omitempty" binding:"omitempty,oneof=Male Female Other"`
	DateOfBirth string `json:"dateOfBirth,omitempty" binding:"omitempty,datetime=2006-01-02"`
}

// ChangePasswordRequest rotates the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}
