package staff

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/gyamfidev/phoneshop-backend/internal/identifier"
	"github.com/gyamfidev/phoneshop-backend/pkg/auth"
	"github.com/gyamfidev/phoneshop-backend/pkg/config"
	dbpkg "github.com/gyamfidev/phoneshop-backend/pkg/db"
	"github.com/gyamfidev/phoneshop-backend/pkg/db/models"
	pkgerrors "github.com/gyamfidev/phoneshop-backend/pkg/errors"
	"github.com/gyamfidev/phoneshop-backend/pkg/logger"
	"github.com/gyamfidev/phoneshop-backend/pkg/security"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type Service struct {
	repo     Repository
	ids      *identifier.Service
	tx       txRunner
	jwt      config.JWTConfig
	password config.PasswordConfig
	logg     *logger.Logger
}

func NewService(repo Repository, ids *identifier.Service, tx txRunner, jwt config.JWTConfig, password config.PasswordConfig, logg *logger.Logger) *Service {
	return &Service{repo: repo, ids: ids, tx: tx, jwt: jwt, password: password, logg: logg}
}

// CreateStaff onboards a staff user with an Argon2id password hash.
func (s *Service) CreateStaff(ctx context.Context, input CreateStaffInput) (*models.StaffUser, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid staff role").
			WithDetails(map[string]any{"role": input.Role})
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "hashing password")
	}

	var created *models.StaffUser
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		publicID, err := s.ids.NextStaffID(tx)
		if err != nil {
			return err
		}
		user := &models.StaffUser{
			PublicID:     publicID,
			Name:         strings.TrimSpace(input.Name),
			Username:     username,
			PasswordHash: hash,
			Role:         input.Role,
			Active:       true,
		}
		if err := s.repo.WithTx(tx).Create(ctx, user); err != nil {
			if dbpkg.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating staff user")
		}
		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithStaffID(ctx, created.PublicID)
	s.logg.Info(logCtx, "staff user created")
	return created, nil
}

// Login verifies credentials and mints an access token.
func (s *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading staff user")
	}
	if !user.Active {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account disabled")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := auth.MintAccessToken(s.jwt, time.Now(), auth.AccessTokenPayload{
		StaffID:  user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting token")
	}

	logCtx := s.logg.WithStaffID(ctx, user.PublicID)
	s.logg.Info(logCtx, "staff login")

	return &LoginResult{
		Token: token,
		Staff: StaffView{
			ID:       user.ID,
			PublicID: user.PublicID,
			Name:     user.Name,
			Username: user.Username,
			Role:     user.Role,
		},
	}, nil
}

// GetStaff looks up a staff user by internal id.
func (s *Service) GetStaff(ctx context.Context, id int64) (*models.StaffUser, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "staff user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading staff user")
	}
	return user, nil
}

// Deactivate disables a staff account.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivating staff user")
	}
	return nil
}
