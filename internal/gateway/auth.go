package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/quizdeck/quizdeck-client/internal/model"
)

// Login authenticates and persists the returned token.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	var out model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &out); err != nil {
		return nil, err
	}
	if err := c.creds.SetToken(out.Token); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	return &out, nil
}

// Register creates an account and persists the returned token.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	var out model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	if err := c.creds.SetToken(out.Token); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	return &out, nil
}

// Logout drops the stored credential. The token is stateless, so
// logout is purely a client-side teardown.
func (c *Client) Logout() error {
	return c.creds.Clear()
}

// CurrentUser fetches the authenticated account's profile.
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	var out model.User
	if err := c.get(ctx, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword starts the OTP reset flow for an email.
func (c *Client) ForgotPassword(ctx context.Context, req model.ForgotPasswordRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", req, nil)
}

// VerifyOTP checks a reset code without consuming it.
func (c *Client) VerifyOTP(ctx context.Context, req model.VerifyOTPRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/verify-otp", req, nil)
}

// ResetPassword consumes an OTP and sets a new password.
func (c *Client) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/reset-password", req, nil)
}

// UpdateProfile edits the caller's own profile.
func (c *Client) UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodPut, "/auth/profile", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword rotates the caller's password.
func (c *Client) ChangePassword(ctx context.Context, req model.ChangePasswordRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/change-password", req, nil)
}
