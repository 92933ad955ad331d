package services

import (
	"errors"
	"time"

	"swapi/internal/domain"
	"swapi/internal/repos"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrBadCreds     = errors.New("invalid email or password")
	ErrInvalidToken = errors.New("invalid or expired token")
)

type AuthService struct {
	Users     *repos.UserRepo
	JWTSecret string
	TokenTTL  time.Duration
}

func NewAuthService(users *repos.UserRepo, secret string) *AuthService {
	return &AuthService{Users: users, JWTSecret: secret, TokenTTL: 30 * 24 * time.Hour}
}

type claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func (s *AuthService) Register(email, password, firstName, lastName, phone string) (*domain.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, "", err
	}
	u := &domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
		Hash:      string(hash),
		Role:      "STUDENT",
	}
	if err := s.Users.Create(u); err != nil {
		return nil, "", err
	}
	tok, err := s.issueToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// Login collapses every credential mismatch into ErrBadCreds so callers
// cannot distinguish unknown emails from wrong passwords.
func (s *AuthService) Login(email, password string) (*domain.User, string, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, "", ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, "", ErrBadCreds
	}
	tok, err := s.issueToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

func (s *AuthService) issueToken(userID string) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TokenTTL)),
		},
	})
	return t.SignedString([]byte(s.JWTSecret))
}

// UserFromToken verifies a bearer token and loads its user.
func (s *AuthService) UserFromToken(tokenStr string) (*domain.User, error) {
	var c claims
	tok, err := jwt.ParseWithClaims(tokenStr, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.JWTSecret), nil
	})
	if err != nil || !tok.Valid || c.UserID == "" {
		return nil, ErrInvalidToken
	}
	u, err := s.Users.ByID(c.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return u, nil
}
