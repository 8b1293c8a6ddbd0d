package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ruedaverde/backend/internal/common"
	"github.com/ruedaverde/backend/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func userRows(u *models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "nombre", "email", "password_hash", "rol", "empresa",
		"telefono", "direccion", "ciudad", "created_at", "updated_at",
	}).AddRow(u.ID, u.Nombre, u.Email, u.PasswordHash, u.Rol,
		u.Empresa, u.Telefono, u.Direccion, u.Ciudad, u.CreatedAt, u.UpdatedAt)
}

func testUser() *models.User {
	now := time.Now()
	return &models.User{
		ID:           "11111111-2222-3333-4444-555555555555",
		Nombre:       "Test User",
		Email:        "test@example.com",
		PasswordHash: "$2a$10$hash",
		Rol:          models.RoleGenerador,
		Empresa:      "Test Company",
		Telefono:     "1234567890",
		Direccion:    "Test Address 123",
		Ciudad:       "Test City",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+usuarios\s*\(id,\s*nombre,\s*email,\s*password_hash,\s*rol,\s*empresa,\s*telefono,\s*direccion,\s*ciudad\)`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now)
	mock.ExpectQuery(q).
		WithArgs(sqlmock.AnyArg(), "Test User", "test@example.com", "$2a$10$hash", "generador",
			"Test Company", "1234567890", "Test Address 123", "Test City").
		WillReturnRows(rows)

	u := testUser()
	u.ID = ""
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID == "" {
		t.Fatalf("expected assigned id, got empty")
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("expected created_at from store, got %v", got.CreatedAt)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+usuarios`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "usuarios_email_unique"})

	_, err := repo.Create(context.Background(), testUser())
	if !errors.Is(err, common.ErrorEmailExists) {
		t.Fatalf("expected common.ErrorEmailExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+usuarios`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), testUser())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	u := testUser()
	mock.ExpectQuery(`(?s)^SELECT\s+.*\s+FROM\s+usuarios\s+WHERE\s+lower\(email\)\s*=\s*lower\(\$1\)`).
		WithArgs("TEST@example.com").
		WillReturnRows(userRows(u))

	got, err := repo.GetByEmail(context.Background(), "TEST@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != u.ID || got.Email != u.Email {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*\s+FROM\s+usuarios\s+WHERE\s+lower\(email\)`).
		WithArgs("missing@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "missing@example.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	u := testUser()
	mock.ExpectQuery(`(?s)^SELECT\s+.*\s+FROM\s+usuarios\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(u.ID).
		WillReturnRows(userRows(u))

	got, err := repo.GetByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestUpdate_AppliesOnlyProvidedFields(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	u := testUser()
	u.Nombre = "Updated Name"

	nombre := "Updated Name"
	mock.ExpectQuery(`(?s)^UPDATE\s+usuarios\s+SET\s+nombre\s*=\s*COALESCE\(\$2,\s*nombre\)`).
		WithArgs(u.ID, "Updated Name", nil, nil, nil, nil).
		WillReturnRows(userRows(u))

	got, err := repo.Update(context.Background(), u.ID, &models.ProfileUpdate{Nombre: &nombre})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.Nombre != "Updated Name" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^UPDATE\s+usuarios\s+SET\s+nombre`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), "no-such-id", &models.ProfileUpdate{})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestUpdatePasswordHash_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+usuarios\s+SET\s+password_hash\s*=\s*\$2`).
		WithArgs("u-1", "$2a$10$newhash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePasswordHash(context.Background(), "u-1", "$2a$10$newhash"); err != nil {
		t.Fatalf("UpdatePasswordHash error: %v", err)
	}
}

func TestUpdatePasswordHash_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+usuarios\s+SET\s+password_hash`).
		WithArgs("no-such-id", "$2a$10$newhash").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePasswordHash(context.Background(), "no-such-id", "$2a$10$newhash")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}
