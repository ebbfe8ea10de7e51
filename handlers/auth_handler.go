package handlers

import (
	"net/http"
	"strings"

	"github.com/feedbackhq/feedback-collector/config"
	apperrors "github.com/feedbackhq/feedback-collector/errors"
	"github.com/feedbackhq/feedback-collector/logger"
	"github.com/feedbackhq/feedback-collector/middleware"
	"github.com/feedbackhq/feedback-collector/store"
	"github.com/feedbackhq/feedback-collector/types"
	"github.com/feedbackhq/feedback-collector/validation"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles admin registration, login and the current-user lookup.
type AuthHandler struct {
	userStore store.UserStore
	jwtConfig *config.JWTConfig
	admin     *config.AdminConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userStore store.UserStore, jwtConfig *config.JWTConfig, admin *config.AdminConfig) *AuthHandler {
	return &AuthHandler{userStore: userStore, jwtConfig: jwtConfig, admin: admin}
}

// Register godoc
// @Summary      Register admin account
// @Description  Creates an admin account when registration is enabled and the invitation code matches
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      types.RegisterRequest  true  "Registration payload"
// @Success      201   {object}  types.AuthResponse
// @Failure      400   {object}  map[string]interface{}
// @Failure      403   {object}  map[string]interface{}
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	log := logger.GetLogger()

	if !h.admin.RegistrationEnabled {
		_ = c.Error(apperrors.Forbidden("Admin registration is currently disabled"))
		return
	}

	var req types.RegisterRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	fields := validation.Run(
		validation.MinLength("username", req.Username, 3, "Username must be at least 3 characters"),
		validation.Email("email", req.Email, "Please provide a valid email"),
		validation.MinLength("password", req.Password, 8, "Password must be at least 8 characters"),
	)
	if len(fields) > 0 {
		_ = c.Error(apperrors.ValidationFailed(fields...))
		return
	}

	if h.admin.InvitationCode != "" && req.AdminCode != h.admin.InvitationCode {
		_ = c.Error(apperrors.Forbidden("Invalid invitation code"))
		return
	}

	if !h.admin.EmailDomainAllowed(req.Email) {
		_ = c.Error(apperrors.Forbidden("Email domain is not allowed for admin accounts"))
		return
	}

	exists, err := h.userStore.UserExists(c.Request.Context(), req.Username, req.Email)
	if err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}
	if exists {
		_ = c.Error(apperrors.Conflict("User with this email or username already exists"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		_ = c.Error(apperrors.InternalServerError("Failed to process registration"))
		return
	}

	user := &types.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Role:         types.RoleAdmin,
	}

	id, err := h.userStore.CreateUser(c.Request.Context(), user)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			_ = c.Error(appErr)
		} else {
			_ = c.Error(apperrors.NewDatabaseError(err))
		}
		return
	}
	user.ID = id

	token, err := middleware.IssueToken(h.jwtConfig, user)
	if err != nil {
		_ = c.Error(apperrors.InternalServerError("Failed to issue token"))
		return
	}

	log.Infow("Admin account registered", "userId", user.ID, "email", logger.MaskEmail(user.Email))

	c.JSON(http.StatusCreated, types.AuthResponse{
		Token: token,
		User:  user.ToResponse(),
	})
}

// Login godoc
// @Summary      Log in
// @Description  Exchanges email and password for a signed token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      types.LoginRequest  true  "Login payload"
// @Success      200   {object}  types.AuthResponse
// @Failure      401   {object}  map[string]interface{}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	log := logger.GetLogger()

	var req types.LoginRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	fields := validation.Run(
		validation.Email("email", req.Email, "Please provide a valid email"),
		validation.Required("password", req.Password, "Password is required"),
	)
	if len(fields) > 0 {
		_ = c.Error(apperrors.ValidationFailed(fields...))
		return
	}

	user, err := h.userStore.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		// Lookup misses and bad passwords answer identically.
		if appErr, ok := err.(*apperrors.AppError); ok && appErr.Type == apperrors.NotFoundError {
			_ = c.Error(apperrors.AuthenticationFailed("Invalid credentials"))
		} else {
			_ = c.Error(apperrors.NewDatabaseError(err))
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		_ = c.Error(apperrors.AuthenticationFailed("Invalid credentials"))
		return
	}

	token, err := middleware.IssueToken(h.jwtConfig, user)
	if err != nil {
		_ = c.Error(apperrors.InternalServerError("Failed to issue token"))
		return
	}

	log.Infow("Admin logged in", "userId", user.ID, "email", logger.MaskEmail(user.Email))

	c.JSON(http.StatusOK, types.AuthResponse{
		Token: token,
		User:  user.ToResponse(),
	})
}

// Me godoc
// @Summary      Current user
// @Description  Returns the authenticated admin's profile
// @Tags         auth
// @Produce      json
// @Success      200  {object}  types.UserResponse
// @Failure      401  {object}  map[string]interface{}
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := h.userStore.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			_ = c.Error(appErr)
		} else {
			_ = c.Error(apperrors.NewDatabaseError(err))
		}
		return
	}

	c.JSON(http.StatusOK, user.ToResponse())
}
