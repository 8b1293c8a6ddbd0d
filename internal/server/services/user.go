// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, profile reads/updates,
// and password changes, and issues the JWTs that authenticate every other
// request.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ruedaverde/backend/internal/common"
	"github.com/ruedaverde/backend/internal/cryptox"
	"github.com/ruedaverde/backend/internal/dbx"
	"github.com/ruedaverde/backend/internal/server/auth"
	"github.com/ruedaverde/backend/internal/server/config"
	"github.com/ruedaverde/backend/internal/server/models"
	"github.com/ruedaverde/backend/internal/server/repositories/repomanager"
)

// dummyHash is compared against when a login names an unknown email, so the
// unknown-email and wrong-password paths cost the same bcrypt work and
// return the same error. Without it, response timing would reveal whether an
// email is registered.
var dummyHash, _ = cryptox.HashPassword(uuid.NewString())

// RegisterInput is the draft account a registration carries. The plaintext
// password lives only here; it is hashed before anything is stored.
type RegisterInput struct {
	Nombre    string
	Email     string
	Password  string
	Rol       models.Role
	Empresa   string
	Telefono  string
	Direccion string
	Ciudad    string
}

// UserService provides identity operations:
//   - Register: create accounts and mint a first token
//   - Login: verify credentials and mint tokens
//   - GetProfile / UpdateProfile: read and mutate profile fields
//   - ChangePassword: rotate the stored password hash
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates a new account and returns it together with a freshly
// issued token. A duplicate email yields common.ErrorEmailExists; an unknown
// role yields common.ErrorValidation. Field presence and format are checked
// at the transport boundary before this method runs.
func (s *UserService) Register(ctx context.Context, in *RegisterInput) (string, *models.User, error) {
	if !in.Rol.Valid() {
		return "", nil, fmt.Errorf("%w: rol", common.ErrorValidation)
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	user := &models.User{
		Nombre:       in.Nombre,
		Email:        in.Email,
		PasswordHash: hash,
		Rol:          in.Rol,
		Empresa:      in.Empresa,
		Telefono:     in.Telefono,
		Direccion:    in.Direccion,
		Ciudad:       in.Ciudad,
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorEmailExists) {
			return "", nil, common.ErrorEmailExists
		}
		return "", nil, fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.generateToken(u)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	return token, u, nil
}

// Login verifies the email/password pair and, on success, returns a new token
// and the account. Unknown email and wrong password both return
// common.ErrorUnauthorized after equivalent work: neither the error nor its
// timing reveals whether the email exists.
func (s *UserService) Login(ctx context.Context, email string, password string) (string, *models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.CheckPassword(password, dummyHash)
			return "", nil, common.ErrorUnauthorized
		}
		return "", nil, common.ErrorInternal
	}

	if !cryptox.CheckPassword(password, user.PasswordHash) {
		return "", nil, common.ErrorUnauthorized
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	return token, user, nil
}

// GetProfile returns the account for an authenticated user id. An account
// that vanished between authentication and use yields common.ErrorNotFound.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// UpdateProfile applies the mutable profile fields and returns the updated
// account. ProfileUpdate cannot carry an email, so a submitted email has
// already been dropped by the time this runs, silently and without an error.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd *models.ProfileUpdate) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.Update(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// ChangePassword verifies the current password and stores a hash of the new
// one. A wrong current password, or an account that no longer exists, yields
// common.ErrIncorrectPassword; the two cases are indistinguishable on the
// wire. The verify and the hash update run in one transaction so the hash
// checked is the hash replaced.
func (s *UserService) ChangePassword(ctx context.Context, userID string, currentPassword string, newPassword string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		user, err := repo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrIncorrectPassword
			}
			return common.ErrorInternal
		}

		if !cryptox.CheckPassword(currentPassword, user.PasswordHash) {
			return common.ErrIncorrectPassword
		}

		newHash, err := cryptox.HashPassword(newPassword)
		if err != nil {
			return common.ErrorInternal
		}

		if err := repo.UpdatePasswordHash(ctx, userID, newHash); err != nil {
			return common.ErrorInternal
		}

		return nil
	})
}

func (s *UserService) generateToken(user *models.User) (string, error) {
	return auth.GenerateToken(user.ID, user.Rol, s.jwtSecret, s.tokenValidityDuration)
}
