package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	insertUserQuery  = `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*email,\s*password_hash,\s*is_active\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+created_at\s*$`
	selectByEmail    = `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*is_active,\s*created_at\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
	selectByID       = `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*is_active,\s*created_at\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`
	deleteUserQuery  = `^DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`
	userTestEmail    = "alice@example.com"
	userTestID       = "0190f3a0-0000-7000-8000-000000000001"
	userTestPassHash = "$2a$04$hash"
)

var userColumns = []string{"id", "email", "password_hash", "is_active", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return NewPostgresRepository(db), mock, db
}

func testUser() *models.User {
	return &models.User{ID: userTestID, Email: userTestEmail, PasswordHash: userTestPassHash, IsActive: true}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(insertUserQuery).
		WithArgs(userTestID, userTestEmail, userTestPassHash, true).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	got, err := repo.Create(context.Background(), testUser())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != userTestID || got.Email != userTestEmail || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(insertUserQuery).
		WithArgs(userTestID, userTestEmail, userTestPassHash, true).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), testUser())
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
	if !regexp.MustCompile(`alice@example\.com`).MatchString(err.Error()) {
		t.Fatalf("expected email in error, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(insertUserQuery).
		WithArgs(userTestID, userTestEmail, userTestPassHash, true).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), testUser())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	if errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("generic failure must not be reported as a conflict")
	}
}

func TestGetUserByEmail_Found(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(selectByEmail).
		WithArgs(userTestEmail).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(userTestID, userTestEmail, userTestPassHash, true, created))

	got, err := repo.GetUserByEmail(context.Background(), userTestEmail)
	if err != nil {
		t.Fatalf("GetUserByEmail error: %v", err)
	}
	if got.ID != userTestID || got.PasswordHash != userTestPassHash || !got.IsActive {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(selectByEmail).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUserByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetUserByEmail_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(selectByEmail).
		WithArgs(userTestEmail).
		WillReturnError(errors.New("db err"))

	_, err := repo.GetUserByEmail(context.Background(), userTestEmail)
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetUserByID(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(selectByID).
		WithArgs(userTestID).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(userTestID, userTestEmail, userTestPassHash, false, time.Now()))
	mock.ExpectQuery(selectByID).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.GetUserByID(context.Background(), userTestID)
	if err != nil {
		t.Fatalf("GetUserByID error: %v", err)
	}
	if got.Email != userTestEmail || got.IsActive {
		t.Fatalf("unexpected user: %+v", got)
	}

	if _, err := repo.GetUserByID(context.Background(), "missing"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(deleteUserQuery).WithArgs(userTestID).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteUserQuery).WithArgs("missing").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(deleteUserQuery).WithArgs("boom").WillReturnError(errors.New("db err"))

	if err := repo.Delete(context.Background(), userTestID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
	if err := repo.Delete(context.Background(), "boom"); err == nil || errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected db error, got %v", err)
	}
}
