package handlers

import (
	"errors"
	"net/http"

	"github.com/vishnucprasad/gotodo-server/internal/auth"
	"github.com/vishnucprasad/gotodo-server/internal/dto"
	"github.com/vishnucprasad/gotodo-server/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles signup, signin, token refresh, profile and signout.
type AuthHandler struct {
	userSvc *service.UserService
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(userSvc *service.UserService) *AuthHandler {
	return &AuthHandler{userSvc: userSvc}
}

// Signup godoc
// @Summary      Sign up with name, email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignupRequest  true  "New account"
// @Success      201   {object}  dto.TokensResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/local/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pair, err := h.userSvc.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusForbidden, gin.H{"error": "email already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, tokensToResponse(pair))
}

// Signin godoc
// @Summary      Sign in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SigninRequest  true  "Credentials"
// @Success      200   {object}  dto.TokensResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/local/signin [post]
func (h *AuthHandler) Signin(c *gin.Context) {
	var req dto.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pair, err := h.userSvc.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signin failed"})
		return
	}
	c.JSON(http.StatusOK, tokensToResponse(pair))
}

// Refresh godoc
// @Summary      Exchange a refresh token for a new token pair
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  dto.TokensResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	rt := auth.RefreshTokenFromContext(c)
	pair, err := h.userSvc.Refresh(c.Request.Context(), userID, rt)
	if err != nil {
		if errors.Is(err, service.ErrAccessDenied) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "access denied"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
		return
	}
	c.JSON(http.StatusCreated, tokensToResponse(pair))
}

// GetUser godoc
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /auth/user [get]
func (h *AuthHandler) GetUser(c *gin.Context) {
	user, err := h.userSvc.GetUser(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// EditUser godoc
// @Summary      Edit name and/or email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.EditUserRequest  true  "Partial update"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/user/edit [patch]
func (h *AuthHandler) EditUser(c *gin.Context) {
	var req dto.EditUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.userSvc.EditProfile(c.Request.Context(), auth.UserIDFromContext(c), req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusForbidden, gin.H{"error": "email already exists"})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "edit failed"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// ChangePassword godoc
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ChangePasswordRequest  true  "Current and new password"
// @Success      200   {object}  map[string]bool
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /auth/user/password [patch]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.userSvc.ChangePassword(c.Request.Context(), auth.UserIDFromContext(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		case errors.Is(err, service.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "password change failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Signout godoc
// @Summary      Sign out (revokes the active refresh token)
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /auth/signout [delete]
func (h *AuthHandler) Signout(c *gin.Context) {
	err := h.userSvc.Signout(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signout failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func tokensToResponse(pair auth.TokenPair) dto.TokensResponse {
	return dto.TokensResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
}
