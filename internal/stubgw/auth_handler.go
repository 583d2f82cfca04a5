package stubgw

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/quizdeck/quizdeck-client/internal/credential"
	"github.com/quizdeck/quizdeck-client/internal/model"
	"github.com/quizdeck/quizdeck-client/internal/response"
	"github.com/quizdeck/quizdeck-client/internal/validator"
)

func (s *Server) issueToken(u *userRecord) (string, error) {
	now := time.Now()
	claims := &credential.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
	return credential.SignToken(claims, s.cfg.JWTSecret)
}

func (s *Server) authResponse(c *gin.Context, u *userRecord) {
	token, err := s.issueToken(u)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, model.AuthResponse{Token: token, User: s.profile(u)})
}

// POST /auth/login
func (s *Server) login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	u := s.userByEmail(req.Email)
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}
	if !u.IsActive {
		response.Fail(c, http.StatusForbidden, response.ErrAccountDisabled)
		return
	}

	s.authResponse(c, u)
}

// POST /auth/register
func (s *Server) register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	u, ok := s.addUser(req.Username, req.Email, req.Password, model.RoleUser)
	if !ok {
		response.Fail(c, http.StatusConflict, response.ErrEmailTaken)
		return
	}

	s.mu.Lock()
	u.Gender = req.Gender
	u.DateOfBirth = req.DateOfBirth
	s.mu.Unlock()

	s.authResponse(c, u)
}

// GET /auth/me
func (s *Server) me(c *gin.Context) {
	claims := getClaims(c)

	s.mu.RLock()
	u := s.users[claims.UserID]
	s.mu.RUnlock()
	if u == nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, s.profile(u))
}

// POST /auth/forgot-password
func (s *Server) forgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	// Always answer 200 so the endpoint does not leak which emails exist.
	if u := s.userByEmail(req.Email); u != nil {
		code := fmt.Sprintf("%06d", rand.Intn(1000000))
		s.mu.Lock()
		s.otps[emailKey(req.Email)] = code
		s.mu.Unlock()
		// A real gateway mails the code; the stub just logs it.
		s.log.Info().Str("email", req.Email).Str("otp", code).Msg("Password reset code issued")
	}

	response.Success(c, http.StatusOK, gin.H{"sent": true})
}

func (s *Server) checkOTP(email, otp string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.otps[emailKey(email)]
	return stored != "" && stored == otp
}

// POST /auth/verify-otp
func (s *Server) verifyOTP(c *gin.Context) {
	var req model.VerifyOTPRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if !s.checkOTP(req.Email, req.OTP) {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidOTP)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"valid": true})
}

// POST /auth/reset-password
func (s *Server) resetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if !s.checkOTP(req.Email, req.OTP) {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidOTP)
		return
	}

	u := s.userByEmail(req.Email)
	if u == nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cfg.BcryptCost)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	s.mu.Lock()
	u.PasswordHash = string(hash)
	delete(s.otps, emailKey(req.Email))
	s.mu.Unlock()

	response.Success(c, http.StatusOK, gin.H{"reset": true})
}

// PUT /auth/profile
func (s *Server) updateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := getClaims(c)

	s.mu.Lock()
	u := s.users[claims.UserID]
	if u == nil {
		s.mu.Unlock()
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if req.Username != "" {
		u.Username = req.Username
	}
	if req.Gender != "" {
		u.Gender = req.Gender
	}
	if req.DateOfBirth != "" {
		u.DateOfBirth = req.DateOfBirth
	}
	profile := s.profile(u)
	s.mu.Unlock()

	response.Success(c, http.StatusOK, profile)
}

// POST /auth/change-password
func (s *Server) changePassword(c *gin.Context) {
	var req model.ChangePasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := getClaims(c)

	s.mu.RLock()
	u := s.users[claims.UserID]
	s.mu.RUnlock()
	if u == nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	// 400, not 401: a typoed current password must not end the session.
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)) != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidCredentials)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cfg.BcryptCost)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	s.mu.Lock()
	u.PasswordHash = string(hash)
	s.mu.Unlock()

	response.Success(c, http.StatusOK, gin.H{"changed": true})
}
