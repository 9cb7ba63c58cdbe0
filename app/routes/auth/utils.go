package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"rentals-dashboard/app/models"
	"rentals-dashboard/app/session"
)

const issuer = "rentals-dashboard"

type JWTClaims struct {
	UserID       int64       `json:"user_id"`
	Email        string      `json:"email"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Role         models.Role `json:"role"`
	BackendToken string      `json:"backend_token"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies session cookies.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tokens) TTL() time.Duration { return t.ttl }

// Issue signs a session for a user the backend has just authenticated.
func (t *Tokens) Issue(user models.User, backendToken string) (string, error) {
	now := t.now()
	claims := JWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		FirstName:    user.Prenom,
		LastName:     user.Nom,
		Role:         user.Role,
		BackendToken: backendToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Validate parses a session cookie and returns the session it carries.
func (t *Tokens) Validate(tokenString string) (*session.Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || !claims.Role.Valid() {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return &session.Session{
		ID:        claims.ID,
		UserID:    claims.UserID,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Role:      claims.Role,
		Token:     claims.BackendToken,
	}, nil
}
