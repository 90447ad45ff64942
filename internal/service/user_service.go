package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"unicode"

	"github.com/vishnucprasad/gotodo-server/internal/auth"
	dom "github.com/vishnucprasad/gotodo-server/internal/domain"
	"github.com/vishnucprasad/gotodo-server/internal/repo"
	"github.com/vishnucprasad/gotodo-server/internal/utils"

	"github.com/jackc/pgx/v5"
)

var (
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccessDenied       = errors.New("access denied")
	ErrWeakPassword       = errors.New("password must be at least 6 characters with upper, lower, digit and symbol")
)

// UserService handles the account and session lifecycle: signup,
// signin, token refresh, profile edit, password change and signout.
type UserService struct {
	repo   repo.UserRepo
	issuer *auth.Issuer

	// comparisonHash is verified against when signin hits an unknown
	// email, so response timing does not reveal whether the account
	// exists.
	comparisonHash string
}

// NewUserService returns a new UserService.
func NewUserService(r repo.UserRepo, issuer *auth.Issuer) (*UserService, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	hash, err := auth.HashSecret(hex.EncodeToString(b))
	if err != nil {
		return nil, err
	}
	return &UserService{repo: r, issuer: issuer, comparisonHash: hash}, nil
}

// Signup creates the user inside a transaction, then mints the first
// token pair and persists the refresh-token hash in a second one.
func (s *UserService) Signup(ctx context.Context, name, email, password string) (auth.TokenPair, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if err := validatePassword(password); err != nil {
		return auth.TokenPair{}, err
	}

	hash, err := auth.HashSecret(password)
	if err != nil {
		return auth.TokenPair{}, err
	}

	var user dom.User
	err = s.repo.WithTx(ctx, func(r repo.UserRepo) error {
		var txErr error
		user, txErr = r.Create(ctx, name, email, hash)
		return txErr
	})
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return auth.TokenPair{}, ErrEmailTaken
		}
		return auth.TokenPair{}, err
	}

	return s.issueTokens(ctx, user)
}

// Signin verifies the credentials and rotates the refresh token.
func (s *UserService) Signin(ctx context.Context, email, password string) (auth.TokenPair, error) {
	email = strings.TrimSpace(email)

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Burn the same hashing cost as the found-user path.
			_, _ = auth.VerifySecret(s.comparisonHash, password)
			return auth.TokenPair{}, ErrInvalidCredentials
		}
		return auth.TokenPair{}, err
	}

	ok, err := auth.VerifySecret(user.PasswordHash, password)
	if err != nil {
		return auth.TokenPair{}, err
	}
	if !ok {
		return auth.TokenPair{}, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Refresh checks the presented refresh token against the stored hash
// and, on match, mints a new pair. The stored hash is overwritten, so
// the presented token is unusable afterwards (rotation).
func (s *UserService) Refresh(ctx context.Context, userID int64, refreshToken string) (auth.TokenPair, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.TokenPair{}, ErrAccessDenied
		}
		return auth.TokenPair{}, err
	}
	if user.RefreshTokenHash == nil {
		return auth.TokenPair{}, ErrAccessDenied
	}

	ok, err := auth.VerifySecret(*user.RefreshTokenHash, refreshToken)
	if err != nil {
		return auth.TokenPair{}, err
	}
	if !ok {
		return auth.TokenPair{}, ErrAccessDenied
	}

	return s.issueTokens(ctx, user)
}

// GetUser returns the user profile.
func (s *UserService) GetUser(ctx context.Context, userID int64) (dom.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return user, nil
}

// EditProfile patches name and/or email inside a transaction.
func (s *UserService) EditProfile(ctx context.Context, userID int64, name, email *string) (dom.User, error) {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		name = &trimmed
	}
	if email != nil {
		trimmed := strings.TrimSpace(*email)
		email = &trimmed
	}

	var user dom.User
	err := s.repo.WithTx(ctx, func(r repo.UserRepo) error {
		var err error
		user, err = r.UpdateProfile(ctx, userID, name, email)
		return err
	})
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrEmailTaken
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return user, nil
}

// ChangePassword verifies the current password outside any transaction,
// then persists the new hash and clears the refresh-token hash in one
// transaction: a password change revokes the active session.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAccessDenied
		}
		return err
	}

	ok, err := auth.VerifySecret(user.PasswordHash, currentPassword)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccessDenied
	}

	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := auth.HashSecret(newPassword)
	if err != nil {
		return err
	}

	return s.repo.WithTx(ctx, func(r repo.UserRepo) error {
		if err := r.UpdatePassword(ctx, userID, hash); err != nil {
			return err
		}
		return r.UpdateRefreshTokenHash(ctx, userID, nil)
	})
}

// Signout clears the stored refresh-token hash; later refresh attempts
// fail even if the token itself has not expired.
func (s *UserService) Signout(ctx context.Context, userID int64) error {
	err := s.repo.WithTx(ctx, func(r repo.UserRepo) error {
		return r.UpdateRefreshTokenHash(ctx, userID, nil)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// issueTokens mints a pair and persists the refresh-token hash
// transactionally. The overwrite is what invalidates any previously
// issued refresh token.
func (s *UserService) issueTokens(ctx context.Context, user dom.User) (auth.TokenPair, error) {
	pair, err := s.issuer.Pair(user.ID, user.Email)
	if err != nil {
		return auth.TokenPair{}, err
	}

	rtHash, err := auth.HashSecret(pair.RefreshToken)
	if err != nil {
		return auth.TokenPair{}, err
	}

	err = s.repo.WithTx(ctx, func(r repo.UserRepo) error {
		return r.UpdateRefreshTokenHash(ctx, user.ID, &rtHash)
	})
	if err != nil {
		return auth.TokenPair{}, err
	}
	return pair, nil
}

// validatePassword enforces the signup password policy: at least 6
// characters with one upper, one lower, one digit and one symbol.
func validatePassword(password string) error {
	if len(password) < 6 {
		return ErrWeakPassword
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	if !upper || !lower || !digit || !symbol {
		return ErrWeakPassword
	}
	return nil
}
