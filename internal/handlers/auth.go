package handlers

import (
	"log"
	"net/http"

	"learntrack/internal/auth"
	"learntrack/internal/dto"
	"learntrack/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles accounts, login and logout.
type AuthHandler struct {
	sessions     *auth.Store
	tokens       *auth.Tokens
	userSvc      *service.UserService
	secureCookie bool
}

// NewAuthHandler returns a new AuthHandler. secureCookie marks the token
// cookie as HTTPS-only.
func NewAuthHandler(sessions *auth.Store, tokens *auth.Tokens, userSvc *service.UserService, secureCookie bool) *AuthHandler {
	return &AuthHandler{sessions: sessions, tokens: tokens, userSvc: userSvc, secureCookie: secureCookie}
}

// Register godoc
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterRequest  true  "Account"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/register [post]
// @Router       /auth/signup [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.userSvc.Register(c.Request.Context(), service.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userToResponse(user))
}

// Login godoc
// @Summary      Login
// @Description  Returns a bearer token and sets it as an httpOnly cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.TokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	user, err := h.userSvc.ValidateCredentials(ctx, req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	sessionID, err := h.sessions.Create(ctx, user.ID)
	if err != nil {
		log.Printf("login: create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	token, exp, err := h.tokens.Issue(user.ID, sessionID)
	if err != nil {
		_ = h.sessions.Delete(ctx, sessionID)
		log.Printf("login: issue token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.TokenCookieName, token, int(h.sessions.TTL().Seconds()), "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, dto.TokenResponse{AccessToken: token, TokenType: "bearer", ExpiresAt: exp})
}

// Logout godoc
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if raw := auth.TokenFromRequest(c); raw != "" {
		if claims, err := h.tokens.Parse(raw); err == nil {
			if err := h.sessions.Delete(c.Request.Context(), claims.SessionID); err != nil {
				log.Printf("logout: delete session: %v", err)
			}
		}
	}
	h.clearCookie(c)
	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.userSvc.Get(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

// DeleteMe godoc
// @Summary      Delete account
// @Description  Deletes the account with all of its goals and tasks and revokes every session.
// @Tags         users
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /users/me [delete]
func (h *AuthHandler) DeleteMe(c *gin.Context) {
	ctx := c.Request.Context()
	userID := auth.UserIDFromContext(c)
	if err := h.userSvc.Delete(ctx, userID); err != nil {
		writeError(c, err)
		return
	}
	if err := h.sessions.DeleteAll(ctx, userID); err != nil {
		log.Printf("delete account: revoke sessions of user %d: %v", userID, err)
	}
	h.clearCookie(c)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) clearCookie(c *gin.Context) {
	c.SetCookie(auth.TokenCookieName, "", -1, "/", "", h.secureCookie, true)
}
