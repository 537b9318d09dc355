// Package service contains application services for accounts and batches.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	pkgcrypto "github.com/learnbatch/learnbatch/internal/crypto"
	"github.com/learnbatch/learnbatch/internal/errs"
	"github.com/learnbatch/learnbatch/internal/limiter"
	"github.com/learnbatch/learnbatch/internal/model"
	"github.com/learnbatch/learnbatch/internal/repository"
)

// Claims is the JWT payload attached to every authenticated request.
type Claims struct {
	jwt.RegisteredClaims
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

// AuthService defines signup and login operations.
type AuthService interface {
	// Register creates a user, or returns the already-stored user when the
	// email is taken. created reports which of the two happened; tokens are
	// only issued for a fresh account.
	Register(ctx context.Context, in model.NewUser) (u *model.User, tokens *model.Tokens, created bool, err error)
	// LoginWithIP applies rate-limiting by (email, ip) and authenticates the user.
	LoginWithIP(ctx context.Context, email, password, ip string) (model.Tokens, *model.User, error)
	// VerifyToken parses and validates an access token, returning its claims.
	VerifyToken(token string) (*Claims, error)
}

type AuthServiceImpl struct {
	users     repository.UserRepository
	signKey   []byte
	accessTTL time.Duration
	lim       limiter.Limiter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, signKey []byte, accessTTL time.Duration, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, signKey: signKey, accessTTL: accessTTL, lim: lim}
}

// Register creates a user with a hashed credential. Signup is idempotent by
// email: a second signup for a registered address returns the original record
// untouched, whatever password the second call carried.
func (s *AuthServiceImpl) Register(ctx context.Context, in model.NewUser) (*model.User, *model.Tokens, bool, error) {
	if in.Email == "" {
		return nil, nil, false, fmt.Errorf("%w: email is required", errs.ErrValidation)
	}
	if in.FirstName == "" || in.Password == "" {
		return nil, nil, false, fmt.Errorf("%w: first name and password are required", errs.ErrValidation)
	}
	if !in.Role.Valid() {
		return nil, nil, false, fmt.Errorf("%w: role must be student or teacher", errs.ErrValidation)
	}

	if existing, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return existing, nil, false, nil
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, nil, false, err
	}

	hash, err := pkgcrypto.HashPassword(in.Password)
	if err != nil {
		return nil, nil, false, err
	}
	uid, err := uuid.NewV4()
	if err != nil {
		return nil, nil, false, err
	}
	u := &model.User{
		ID:        uid,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		PwdHash:   hash,
		ImageURL:  in.ImageURL,
		Role:      in.Role,
		Batches:   []model.Batch{},
		CreatedAt: time.Now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			// lost a signup race; the first writer wins
			existing, gerr := s.users.GetByEmail(ctx, in.Email)
			if gerr != nil {
				return nil, nil, false, gerr
			}
			return existing, nil, false, nil
		}
		return nil, nil, false, err
	}

	tokens, err := s.issueAccessToken(u)
	if err != nil {
		return nil, nil, false, err
	}
	return u, &tokens, true, nil
}

// LoginWithIP authenticates with rate limiting by (email, ip).
func (s *AuthServiceImpl) LoginWithIP(ctx context.Context, email, password, ip string) (model.Tokens, *model.User, error) {
	if email == "" || password == "" {
		return model.Tokens{}, nil, fmt.Errorf("%w: email and password are required", errs.ErrValidation)
	}
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, email, ipHash)
	if err != nil {
		return model.Tokens{}, nil, err
	}
	if !allowed {
		return model.Tokens{}, nil, errs.ErrRateLimited
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil || !pkgcrypto.VerifyPassword(u.PwdHash, password) {
		if blocked, _, ferr := s.lim.Failure(ctx, email, ipHash); ferr == nil && blocked {
			return model.Tokens{}, nil, errs.ErrRateLimited
		}
		// same answer for unknown email and wrong password
		return model.Tokens{}, nil, errs.ErrUnauthorized
	}

	_ = s.lim.Success(ctx, email, ipHash)

	tokens, err := s.issueAccessToken(u)
	if err != nil {
		return model.Tokens{}, nil, err
	}
	return tokens, u, nil
}

// VerifyToken checks signature, method, and expiry of an HS256 access token.
func (s *AuthServiceImpl) VerifyToken(token string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.signKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, errs.ErrUnauthorized
	}

	v := jwt.NewValidator(jwt.WithLeeway(30 * time.Second))
	if err := v.Validate(&claims); err != nil {
		return nil, errs.ErrUnauthorized
	}
	return &claims, nil
}

// issueAccessToken creates a signed HS256 JWT for the given user.
func (s *AuthServiceImpl) issueAccessToken(u *model.User) (model.Tokens, error) {
	now := time.Now()
	exp := now.Add(s.accessTTL)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Email: u.Email,
		Role:  u.Role,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signKey)
	if err != nil {
		return model.Tokens{}, err
	}
	return model.Tokens{AccessToken: signed, ExpiresAt: exp}, nil
}
