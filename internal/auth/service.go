package auth

import (
	"context"
	"errors"
	"time"

	"github.com/evanjt/veloq-sub002/internal/db"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 12 * time.Hour

// Service exchanges a registered device key for a short-lived access token.
// The sync client on the phone holds the key; write endpoints require the
// token it buys.
type Service struct {
	secret []byte
	db     db.Querier
}

type Claims struct {
	DeviceID string `json:"device_id"`
	jwt.RegisteredClaims
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type Device struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func NewService(secret string, querier db.Querier) *Service {
	return &Service{
		secret: []byte(secret),
		db:     querier,
	}
}

// RegisterDevice stores a new device with a bcrypt hash of its key and
// returns the generated device id.
func (s *Service) RegisterDevice(ctx context.Context, name, key string) (Device, error) {
	if name == "" || key == "" {
		return Device{}, errors.New("name and key required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return Device{}, err
	}

	device := Device{ID: uuid.NewString(), Name: name}
	row := s.db.QueryRow(ctx, `
		INSERT INTO devices (id, name, key_hash)
		VALUES ($1,$2,$3)
		RETURNING created_at
	`, device.ID, device.Name, string(hash))
	if err := row.Scan(&device.CreatedAt); err != nil {
		return Device{}, err
	}
	return device, nil
}

// IssueToken verifies a device key and returns a signed access token.
func (s *Service) IssueToken(ctx context.Context, deviceID, key string) (TokenResponse, error) {
	var hash string
	row := s.db.QueryRow(ctx, `
		SELECT key_hash FROM devices WHERE id = $1 AND revoked_at IS NULL
	`, deviceID)
	if err := row.Scan(&hash); err != nil {
		return TokenResponse{}, errors.New("unknown device")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
		return TokenResponse{}, errors.New("invalid device key")
	}

	token, err := s.signToken(deviceID, tokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}
	return TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(tokenTTL.Seconds()),
	}, nil
}

// ValidateToken parses a token and returns its device id.
func (s *Service) ValidateToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", errors.New("token invalid")
	}
	return claims.DeviceID, nil
}

func (s *Service) signToken(deviceID string, ttl time.Duration) (string, error) {
	claims := Claims{
		DeviceID: deviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
