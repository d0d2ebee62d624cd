package services

import (
	"fmt"
	"time"

	"foodexpress/internal/apperrors"
	"foodexpress/internal/metrics"
	"foodexpress/internal/models"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
)

const (
	loginKindLogin  = "login"
	loginKindSignup = "signup"
)

// AuthResult is what a successful login or signup hands back to the client.
type AuthResult struct {
	Token     string         `json:"token"`
	SessionID string         `json:"-"`
	Session   models.Session `json:"session"`
}

// AuthService opens storefront sessions and issues the tokens that identify them.
type AuthService struct {
	registry  *StorefrontRegistry
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewAuthService creates a new AuthService.
func NewAuthService(registry *StorefrontRegistry, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger, m *metrics.Metrics) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		registry:  registry,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
		metrics:   m,
	}
}

// Login opens a new session logged in as email. Any non-empty pair is accepted.
func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	return s.open(loginKindLogin, email, password)
}

// Signup behaves exactly like Login.
func (s *AuthService) Signup(email, password string) (*AuthResult, error) {
	return s.open(loginKindSignup, email, password)
}

func (s *AuthService) open(kind, email, password string) (*AuthResult, error) {
	sf := s.registry.Open()

	var (
		session models.Session
		err     error
	)
	if kind == loginKindSignup {
		session, err = sf.Session.Signup(email, password)
	} else {
		session, err = sf.Session.Login(email, password)
	}
	if err != nil {
		s.registry.Close(sf.ID)
		s.metrics.Login(kind, false)
		return nil, err
	}

	token, err := s.issueToken(sf.ID, session.Email())
	if err != nil {
		s.registry.Close(sf.ID)
		s.metrics.Login(kind, false)
		return nil, apperrors.NewInternalError("failed to generate token", err)
	}

	s.metrics.Login(kind, true)
	s.logger.Info("session opened",
		zap.String("kind", kind),
		zap.String("session_id", sf.ID),
		zap.String("email", session.Email()),
	)
	return &AuthResult{Token: token, SessionID: sf.ID, Session: session}, nil
}

// Logout clears the identity of sf and closes the session. Pending order
// transitions are canceled.
func (s *AuthService) Logout(sf *Storefront) models.Session {
	session := sf.Session.Logout()
	s.registry.Close(sf.ID)
	s.logger.Info("session closed", zap.String("session_id", sf.ID))
	return session
}

func (s *AuthService) issueToken(sessionID, email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"session_id": sessionID,
		"email":      email,
		"exp":        now.Add(s.tokenTTL).Unix(),
		"iat":        now.Unix(),
	})
	return token.SignedString(s.jwtSecret)
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		s.logger.Debug("token validation failed", zap.Error(err))
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// Resolve returns the storefront a token refers to. The session must still be
// open and logged in.
func (s *AuthService) Resolve(tokenString string) (*Storefront, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid or expired token")
	}

	sessionID, _ := claims["session_id"].(string)
	if sessionID == "" {
		return nil, apperrors.NewUnauthorizedError("token carries no session")
	}

	sf, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("session closed")
	}
	if !sf.Session.Snapshot().Authenticated() {
		return nil, apperrors.NewUnauthorizedError("not logged in")
	}
	return sf, nil
}
