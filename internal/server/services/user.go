// Package services contains the identity service business logic.
// UserService handles registration, sign-in, refresh sessions, password
// recovery and profile updates.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/waterbot/internal/common"
	"github.com/dmitrijs2005/waterbot/internal/dbx"
	"github.com/dmitrijs2005/waterbot/internal/logging"
	"github.com/dmitrijs2005/waterbot/internal/server/auth"
	"github.com/dmitrijs2005/waterbot/internal/server/config"
	"github.com/dmitrijs2005/waterbot/internal/server/models"
	"github.com/dmitrijs2005/waterbot/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Session is a token pair plus the user it was issued to.
type Session struct {
	TokenPair
	User *models.User
}

// UserService implements the identity flows over the repositories.
type UserService struct {
	db                            *sql.DB
	repomanager                   repomanager.RepositoryManager
	logger                        logging.Logger
	jwtSecret                     []byte
	accessTokenValidityDuration   time.Duration
	refreshTokenValidityDuration  time.Duration
	recoveryTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService with token lifetimes from cfg.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		db:                            db,
		repomanager:                   m,
		logger:                        logger.With("module", "users"),
		jwtSecret:                     []byte(cfg.SecretKey),
		accessTokenValidityDuration:   cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration:  cfg.RefreshTokenValidityDuration,
		recoveryTokenValidityDuration: cfg.RecoveryTokenValidityDuration,
	}
}

// SignUp registers email with password and opens a session. A taken email
// yields common.ErrorAlreadyExists, bad input common.ErrorValidation.
func (s *UserService) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email = common.NormalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, salt := auth.NewPasswordHash(password)
	user := &models.User{Email: email, PasswordHash: hash, Salt: salt}

	var sess *Session
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			return err
		}
		pair, err := s.generateTokenPair(ctx, u, tx)
		if err != nil {
			return err
		}
		sess = &Session{TokenPair: *pair, User: u}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user signed up", "user_id", sess.User.ID)
	return sess, nil
}

// SignIn verifies credentials. Unknown email and wrong password both yield
// common.ErrorUnauthorized.
func (s *UserService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByEmail(ctx, common.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.Salt, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	pair, err := s.generateTokenPair(ctx, user, s.db)
	if err != nil {
		return nil, err
	}
	return &Session{TokenPair: *pair, User: user}, nil
}

// SignOut revokes refreshToken, or every refresh session of userID when
// refreshToken is empty.
func (s *UserService) SignOut(ctx context.Context, userID, refreshToken string) error {
	repo := s.repomanager.RefreshTokens(s.db)
	if refreshToken == "" {
		return repo.DeleteByUser(ctx, userID)
	}
	return repo.Delete(ctx, refreshToken)
}

// GetUser returns the user with userID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetUserByID(ctx, userID)
}

// RefreshSession validates a refresh token, rotates it transactionally and
// returns a fresh session. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expired(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var sess *Session
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		user, err := s.repomanager.Users(tx).GetUserByID(ctx, token.UserID)
		if err != nil {
			return err
		}
		pair, err := s.generateTokenPair(ctx, user, tx)
		if err != nil {
			return err
		}
		sess = &Session{TokenPair: *pair, User: user}
		return nil
	}); err != nil {
		return nil, err
	}
	return sess, nil
}

// RequestPasswordReset issues a recovery token for email. Unknown emails are
// not reported to the caller. Tokens are only logged; nothing is mailed.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	email = common.NormalizeEmail(email)
	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "password reset for unknown email")
			return nil
		}
		return common.ErrorInternal
	}

	token, err := common.MakeRandHexString(16)
	if err != nil {
		return common.ErrorInternal
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.RecoveryTokens(tx)
		if err := repo.DeleteByUser(ctx, user.ID); err != nil {
			return err
		}
		return repo.Create(ctx, user.ID, token, s.recoveryTokenValidityDuration)
	}); err != nil {
		return fmt.Errorf("error storing recovery token: %w", err)
	}

	s.logger.Info(ctx, "password recovery issued", "user_id", user.ID)
	// Nothing is mailed in development; the code is only visible at debug level.
	s.logger.Debug(ctx, "recovery code", "user_id", user.ID, "code", token)
	return nil
}

// VerifyRecovery redeems a recovery code issued to email and opens a
// session, so the caller can set a new password with UpdateUser. Unknown,
// foreign and expired codes all yield common.ErrorUnauthorized. Redeeming
// revokes every outstanding code of the user.
func (s *UserService) VerifyRecovery(ctx context.Context, email, code string) (*Session, error) {
	if code == "" {
		return nil, common.ErrorUnauthorized
	}
	email = common.NormalizeEmail(email)

	token, err := s.repomanager.RecoveryTokens(s.db).Find(ctx, code)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching recovery token: %w", err)
	}
	if token.Expired(time.Now()) {
		return nil, common.ErrorUnauthorized
	}

	var sess *Session
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).GetUserByID(ctx, token.UserID)
		if err != nil {
			return err
		}
		if user.Email != email {
			return common.ErrorUnauthorized
		}
		if err := s.repomanager.RecoveryTokens(tx).DeleteByUser(ctx, user.ID); err != nil {
			return err
		}
		pair, err := s.generateTokenPair(ctx, user, tx)
		if err != nil {
			return err
		}
		sess = &Session{TokenPair: *pair, User: user}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, err
		}
		return nil, fmt.Errorf("error redeeming recovery token: %w", err)
	}

	s.logger.Info(ctx, "recovery code redeemed", "user_id", sess.User.ID)
	return sess, nil
}

// UpdateUser changes the password when password is non-empty and merges
// metadata into the profile. It returns the updated user.
func (s *UserService) UpdateUser(ctx context.Context, userID, password string, metadata map[string]string) (*models.User, error) {
	if password != "" && len(password) < common.MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, common.MinPasswordLength)
	}

	var user *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		if password != "" {
			hash, salt := auth.NewPasswordHash(password)
			if err := repo.UpdatePassword(ctx, userID, hash, salt); err != nil {
				return err
			}
		}
		if len(metadata) > 0 {
			if err := repo.MergeMetadata(ctx, userID, metadata); err != nil {
				return err
			}
		}
		u, err := repo.GetUserByID(ctx, userID)
		user = u
		return err
	})
	if err != nil {
		return nil, err
	}

	if password != "" {
		s.logger.Info(ctx, "password updated", "user_id", userID)
	}
	return user, nil
}

// AccessIdentity verifies an access token.
func (s *UserService) AccessIdentity(token string) (*auth.Identity, error) {
	return auth.ParseToken(token, s.jwtSecret)
}

func validateCredentials(email, password string) error {
	if !common.IsValidEmail(email) {
		return fmt.Errorf("%w: invalid email address", common.ErrorValidation)
	}
	if len(password) < common.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, common.MinPasswordLength)
	}
	return nil
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, user *models.User, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, user.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
