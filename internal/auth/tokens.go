package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carried by both token classes: subject is the user ID,
// plus the account email.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenPair is an access/refresh token pair minted together.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Issuer signs and verifies access and refresh tokens. The two classes
// use distinct HS256 secrets, so an access token never verifies as a
// refresh token or vice versa. Access tokens are self-verifying;
// refresh token validity additionally depends on a server-side hash
// match done by the service layer.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewIssuer returns an Issuer with the given class secrets and lifetimes.
func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// Pair mints a new access/refresh token pair for the user.
func (i *Issuer) Pair(userID int64, email string) (TokenPair, error) {
	at, err := i.sign(userID, email, i.accessSecret, i.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	rt, err := i.sign(userID, email, i.refreshSecret, i.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: at, RefreshToken: rt}, nil
}

// VerifyAccess verifies an access token and returns its claims.
func (i *Issuer) VerifyAccess(token string) (Claims, error) {
	return i.verify(token, i.accessSecret)
}

// VerifyRefresh verifies a refresh token signature and expiry. It does
// not check the stored hash; that is the refresh flow's job.
func (i *Issuer) VerifyRefresh(token string) (Claims, error) {
	return i.verify(token, i.refreshSecret)
}

// UserID returns the numeric user ID from the subject claim.
func (c Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}

func (i *Issuer) sign(userID int64, email string, secret []byte, ttl time.Duration) (string, error) {
	jti, err := tokenID()
	if err != nil {
		return "", err
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	})
	return token.SignedString(secret)
}

// tokenID returns a random token identifier. Timestamps in the claims
// only have second precision, so without it two tokens minted back to
// back for the same user would be identical.
func tokenID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (i *Issuer) verify(tokenString string, secret []byte) (Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	return *claims, nil
}
