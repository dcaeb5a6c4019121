package server

import (
	"context"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"

	"github.com/gravitas-games/hexgeo/internal/config"
	"github.com/gravitas-games/hexgeo/pkg/models"
)

// ErrMissingToken is returned when an upgrade request carries no token.
var ErrMissingToken = errors.New("missing authentication token")

// Authenticator resolves the client behind a websocket upgrade request
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) (*models.Client, error)
}

// AnonymousAuth admits every request. Used when jwt.disabled is set.
type AnonymousAuth struct{}

// Authenticate implements Authenticator
func (AnonymousAuth) Authenticate(context.Context, *http.Request) (*models.Client, error) {
	return &models.Client{ID: "anonymous", Username: "anonymous", Anonymous: true}, nil
}

// JWTValidator handles JWT token validation
type JWTValidator struct {
	config    config.JWTConfig
	publicKey *ecdsa.PublicKey
	keyMu     sync.RWMutex
	blacklist Blacklist
	http      *http.Client
	logger    *log.Logger
}

// Claims represents JWT token claims issued by the login server
type Claims struct {
	UserID      int64  `json:"user_id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	AuthMethod  string `json:"auth_method"`
	Permissions int64  `json:"permissions"`
	Activated   int64  `json:"activated"`
	jwt.RegisteredClaims
}

// NewJWTValidator creates a new JWT validator and fetches the signing key.
// blacklist may be nil.
func NewJWTValidator(ctx context.Context, cfg config.JWTConfig, blacklist Blacklist, logger *log.Logger) (*JWTValidator, error) {
	validator := &JWTValidator{
		config:    cfg,
		blacklist: blacklist,
		http:      &http.Client{Timeout: 10 * time.Second},
		logger:    logger,
	}

	if err := validator.RefreshPublicKey(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch public key: %w", err)
	}

	logger.Info("JWT validator initialized", "issuer", cfg.Issuer)
	return validator, nil
}

// RefreshPublicKey fetches the public key from the login server
func (v *JWTValidator) RefreshPublicKey(ctx context.Context) error {
	v.logger.Debug("fetching public key", "url", v.config.PublicKeyURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.config.PublicKeyURL, nil)
	if err != nil {
		return err
	}
	resp, err := v.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch public key: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("public key endpoint returned status %d", resp.StatusCode)
	}

	keyData, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read public key: %w", err)
	}

	key, err := parsePublicKey(keyData)
	if err != nil {
		return err
	}

	v.keyMu.Lock()
	v.publicKey = key
	v.keyMu.Unlock()

	v.logger.Info("public key refreshed")
	return nil
}

func parsePublicKey(data []byte) (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}

	pubKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	ecdsaKey, ok := pubKey.(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not ECDSA")
	}
	return ecdsaKey, nil
}

// Run refreshes the public key periodically until ctx is done
func (v *JWTValidator) Run(ctx context.Context) {
	refreshInterval := time.Duration(v.config.PublicKeyRefreshHrs) * time.Hour
	if refreshInterval <= 0 {
		return
	}

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := v.RefreshPublicKey(ctx); err != nil {
				v.logger.Warn("failed to refresh public key", "err", err)
			}
		}
	}
}

// ValidateToken validates a JWT token and returns client information
func (v *JWTValidator) ValidateToken(ctx context.Context, tokenString string) (*models.Client, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"ES256", "ES384", "ES512"})}
	if v.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		v.keyMu.RLock()
		defer v.keyMu.RUnlock()
		return v.publicKey, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	// Validate activation status
	if claims.Activated == 0 {
		return nil, errors.New("user not activated")
	}
	if claims.Activated == -1 {
		return nil, errors.New("user is banned")
	}

	userID := strconv.FormatInt(claims.UserID, 10)
	if v.blacklist != nil {
		blacklisted, err := v.blacklist.IsBlacklisted(ctx, userID)
		if err != nil {
			// Don't fail authentication if the blacklist store is down
			v.logger.Warn("failed to check blacklist", "user", userID, "err", err)
		} else if blacklisted {
			return nil, errors.New("token is blacklisted")
		}
	}

	return &models.Client{
		ID:          userID,
		Username:    claims.Username,
		Email:       claims.Email,
		Permissions: claims.Permissions,
		Activated:   claims.Activated,
		AuthMethod:  claims.AuthMethod,
	}, nil
}

// Authenticate implements Authenticator
func (v *JWTValidator) Authenticate(ctx context.Context, r *http.Request) (*models.Client, error) {
	tokenString := extractToken(r)
	if tokenString == "" {
		return nil, ErrMissingToken
	}
	return v.ValidateToken(ctx, tokenString)
}

// extractToken extracts the JWT from a websocket upgrade request
func extractToken(r *http.Request) string {
	// Sec-WebSocket-Protocol first: "access_token, <token>"
	if protocols := r.Header.Get("Sec-WebSocket-Protocol"); protocols != "" {
		parts := strings.Split(protocols, ",")
		if len(parts) == 2 && strings.TrimSpace(parts[0]) == tokenProtocol {
			return strings.TrimSpace(parts[1])
		}
	}

	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok && token != "" {
		return token
	}

	// Query parameter (less secure, but supported)
	return r.URL.Query().Get("token")
}
