package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ruedaverde/backend/internal/common"
	"github.com/ruedaverde/backend/internal/dbx"
	"github.com/ruedaverde/backend/internal/server/models"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// translateError maps vendor-specific error codes to our sentinel errors at
// the store boundary, so business logic never branches on pgconn shapes.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return common.ErrorEmailExists
	}
	return fmt.Errorf("db error: %w", err)
}

const userColumns = `id, nombre, email, password_hash, rol, empresa, telefono, direccion, ciudad, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Nombre, &user.Email, &user.PasswordHash, &user.Rol,
		&user.Empresa, &user.Telefono, &user.Direccion, &user.Ciudad,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, translateError(err)
	}
	return user, nil
}

// Create inserts a new account. The unique index on lower(email) makes the
// duplicate check atomic with the insert: of two concurrent registrations for
// the same email exactly one commits, the other surfaces ErrorEmailExists.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	user.ID = uuid.NewString()

	query :=
		`INSERT INTO usuarios (id, nombre, email, password_hash, rol, empresa, telefono, direccion, ciudad)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Nombre, user.Email, user.PasswordHash, user.Rol,
		user.Empresa, user.Telefono, user.Direccion, user.Ciudad).
		Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return nil, translateError(err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM usuarios
		 WHERE lower(email) = lower($1)
		 `

	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM usuarios
		 WHERE id = $1
		 `

	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// Update applies the mutable profile fields only. Email is not part of
// ProfileUpdate, so a submitted email can never reach this statement.
func (r *PostgresRepository) Update(ctx context.Context, id string, upd *models.ProfileUpdate) (*models.User, error) {
	query :=
		`UPDATE usuarios
		 SET nombre = COALESCE($2, nombre),
		     empresa = COALESCE($3, empresa),
		     telefono = COALESCE($4, telefono),
		     direccion = COALESCE($5, direccion),
		     ciudad = COALESCE($6, ciudad),
		     updated_at = now()
		 WHERE id = $1
		 RETURNING ` + userColumns + `
		 `

	return scanUser(r.db.QueryRowContext(ctx, query, id,
		upd.Nombre, upd.Empresa, upd.Telefono, upd.Direccion, upd.Ciudad))
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id string, newHash string) error {
	query :=
		`UPDATE usuarios
		 SET password_hash = $2, updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, newHash)
	if err != nil {
		return translateError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}
