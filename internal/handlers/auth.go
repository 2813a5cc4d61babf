package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/lucasmnd/toile/backend/internal/apperrors"
	"github.com/lucasmnd/toile/backend/internal/models"
	"github.com/lucasmnd/toile/backend/internal/repositories"
	"github.com/lucasmnd/toile/backend/internal/services"
	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	tokens         *services.TokenService
	firebaseAuth   *auth.Client // nil when Firebase login is not configured
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, tokens *services.TokenService, firebaseAuthClient *auth.Client) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		tokens:         tokens,
		firebaseAuth:   firebaseAuthClient,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	g.POST("/exchange", h.Exchange)
	if h.firebaseAuth != nil {
		g.POST("/firebase-login", h.FirebaseLogin)
	}
}

func (h *AuthHandler) authResponse(c echo.Context, status int, user *models.User, token string, expiresAt time.Time) error {
	return c.JSON(status, echo.Map{
		"success":    true,
		"token":      token,
		"expires_at": expiresAt,
		"user":       user.ToCompact(),
	})
}

// Signup handles local user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.CreateLocalUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return respondError(c, apperrors.NewValidation("a user with this email already exists"))
	}
	if _, err := h.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
		return respondError(c, apperrors.NewValidation("username %q is taken", req.Username))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondError(c, apperrors.NewUpstream("failed to hash password", err))
	}

	user := &models.User{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return respondError(c, err)
	}

	token, expiresAt, err := h.tokens.Issue(user)
	if err != nil {
		return respondError(c, err)
	}
	return h.authResponse(c, http.StatusCreated, user, token, expiresAt)
}

// SignIn handles local user authentication with email and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return respondError(c, apperrors.NewAuth("unknown email or wrong password"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return respondError(c, apperrors.NewAuth("unknown email or wrong password"))
	}

	token, expiresAt, err := h.tokens.Issue(user)
	if err != nil {
		return respondError(c, err)
	}
	return h.authResponse(c, http.StatusOK, user, token, expiresAt)
}

// ExchangeRequest defines the request body for the session-token exchange
type ExchangeRequest struct {
	Token string `json:"token" validate:"required"`
}

// Exchange trades a stored session token for a fresh one. The account
// switcher on the client calls this instead of asking for a password again.
func (h *AuthHandler) Exchange(c echo.Context) error {
	var req ExchangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, token, expiresAt, err := h.tokens.Exchange(c.Request().Context(), req.Token)
	if err != nil {
		return respondError(c, err)
	}
	return h.authResponse(c, http.StatusOK, user, token, expiresAt)
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token and issues a local session
// token, creating the account on first login.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	idToken, err := h.firebaseAuth.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return respondError(c, apperrors.NewAuth("invalid Firebase ID token"))
	}

	email, _ := idToken.Claims["email"].(string)
	name, _ := idToken.Claims["name"].(string)

	user, err := h.userRepository.GetUserByFirebaseUID(ctx, idToken.UID)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			return respondError(c, err)
		}
		// Fall back to the email so an existing local account gets linked.
		user, err = h.userRepository.GetUserByEmail(ctx, email)
		if err != nil {
			if !apperrors.IsNotFound(err) {
				return respondError(c, err)
			}
			user = &models.User{
				Name:        name,
				Username:    h.usernameFromEmail(ctx, email),
				Email:       email,
				FirebaseUID: idToken.UID,
			}
			if err := h.userRepository.CreateUser(ctx, user); err != nil {
				return respondError(c, err)
			}
		} else {
			user.FirebaseUID = idToken.UID
			if err := h.userRepository.UpdateUser(ctx, user); err != nil {
				return respondError(c, err)
			}
		}
	}

	token, expiresAt, err := h.tokens.Issue(user)
	if err != nil {
		return respondError(c, err)
	}
	return h.authResponse(c, http.StatusOK, user, token, expiresAt)
}

// usernameFromEmail derives a free username from the email local part,
// suffixing a short id on collision.
func (h *AuthHandler) usernameFromEmail(ctx context.Context, email string) string {
	base := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	if base == "" {
		base = "user"
	}
	if _, err := h.userRepository.GetUserByUsername(ctx, base); err != nil {
		return base
	}
	suffix, err := gonanoid.Generate("0123456789abcdefghijklmnopqrstuvwxyz", 6)
	if err != nil {
		return base
	}
	return base + "-" + suffix
}
