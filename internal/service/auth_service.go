package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"pairquiz/internal/cache"
	"pairquiz/internal/config"
	"pairquiz/internal/domain"
	"pairquiz/internal/dto"
	"pairquiz/internal/logger"
	"pairquiz/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var (
	ErrInvalidJWTToken = errors.New("invalid jwt token")
	ErrInvalidOTP      = errors.New("invalid or expired one-time code")
)

// AuthService defines the interface for authentication operations.
// Login is passwordless: a one-time code is mailed to the address and
// verifying it mints the JWT pair, creating the account on first use.
type AuthService interface {
	RequestOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (*dto.TokenResponse, *domain.User, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	CreateJWT(ctx context.Context, userID string, ttl time.Duration, tokenType string) (string, error)
	RefreshToken(ctx context.Context, refreshTokenString string) (*dto.TokenResponse, error)
}

type authServiceImpl struct {
	userRepo    domain.UserRepository
	profileRepo domain.ProfileRepository
	txManager   domain.TransactionManager
	cache       domain.Cache
	mailer      domain.Mailer
	appConfig   *config.Config
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(
	userRepo domain.UserRepository,
	profileRepo domain.ProfileRepository,
	txManager domain.TransactionManager,
	cacheClient domain.Cache,
	mailer domain.Mailer,
	appConfig *config.Config,
) (AuthService, error) {
	if len(appConfig.JWT.SecretKey) < 32 {
		return nil, errors.New("jwt secret key must be at least 32 bytes long")
	}
	return &authServiceImpl{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		txManager:   txManager,
		cache:       cacheClient,
		mailer:      mailer,
		appConfig:   appConfig,
	}, nil
}

// RequestOTP issues a fresh one-time code for the address and hands it to
// the mailer. Re-requesting overwrites the previous code, so only the
// latest one verifies.
func (s *authServiceImpl) RequestOTP(ctx context.Context, email string) error {
	appLogger := logger.Get()
	email = strings.ToLower(strings.TrimSpace(email))

	code, err := util.NewOTPCode(s.appConfig.Auth.OTPLength)
	if err != nil {
		return domain.NewInternalError("failed to generate one-time code", err)
	}
	if err := s.cache.Set(ctx, cache.OTPKey(email), code, s.appConfig.Auth.OTPTTL); err != nil {
		return domain.NewStoreUnavailableError("failed to store one-time code", err)
	}
	if err := s.mailer.SendOTP(ctx, email, code); err != nil {
		return domain.NewInternalError("failed to send one-time code", err)
	}

	appLogger.Info("One-time code issued", zap.String("email", email))
	return nil
}

// VerifyOTP consumes the pending code for the address. On first login the
// user row and its empty profile are created together, so a half-created
// account can never be observed.
func (s *authServiceImpl) VerifyOTP(ctx context.Context, email, code string) (*dto.TokenResponse, *domain.User, error) {
	appLogger := logger.Get()
	email = strings.ToLower(strings.TrimSpace(email))
	key := cache.OTPKey(email)

	stored, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, nil, ErrInvalidOTP
		}
		return nil, nil, domain.NewStoreUnavailableError("failed to read one-time code", err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(strings.TrimSpace(code))) != 1 {
		return nil, nil, ErrInvalidOTP
	}
	// A code verifies exactly once.
	if err := s.cache.Delete(ctx, key); err != nil {
		appLogger.Warn("Failed to delete consumed one-time code", zap.String("email", email), zap.Error(err))
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		newUser := domain.NewUser(util.NewULID(), email)
		err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := s.userRepo.CreateUser(txCtx, newUser); err != nil {
				return err
			}
			return s.profileRepo.EnsureProfile(txCtx, newUser.ID)
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create user: %w", err)
		}
		user = newUser
		appLogger.Info("New user created via one-time code", zap.String("userID", user.ID), zap.String("email", email))
	} else {
		appLogger.Info("User logged in via one-time code", zap.String("userID", user.ID))
	}

	tokens, err := s.issueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return tokens, user, nil
}

func (s *authServiceImpl) issueTokenPair(ctx context.Context, userID string) (*dto.TokenResponse, error) {
	accessToken, err := s.CreateJWT(ctx, userID, s.appConfig.JWT.AccessTokenTTL, tokenTypeAccess)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}
	refreshToken, err := s.CreateJWT(ctx, userID, s.appConfig.JWT.RefreshTokenTTL, tokenTypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh token: %w", err)
	}
	return &dto.TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *authServiceImpl) CreateJWT(ctx context.Context, userID string, ttl time.Duration, tokenType string) (string, error) {
	claims := dto.AuthClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.appConfig.JWT.SecretKey))
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	appLogger := logger.Get()
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.appConfig.JWT.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			appLogger.Warn("JWT token expired", zap.Error(err))
		} else {
			appLogger.Warn("JWT validation failed", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	if claims, ok := token.Claims.(*dto.AuthClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidJWTToken
}

func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshTokenString string) (*dto.TokenResponse, error) {
	appLogger := logger.Get()
	claims, err := s.ValidateJWT(ctx, refreshTokenString)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, errors.New("not a refresh token")
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user for refresh: %w", err)
	}
	if user == nil {
		appLogger.Warn("User not found for refresh token", zap.String("userID", claims.UserID))
		return nil, domain.NewNotFoundError(fmt.Sprintf("user %s not found", claims.UserID))
	}

	return s.issueTokenPair(ctx, user.ID)
}
