package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/cryptox"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

func testHasher(t *testing.T) cryptox.PasswordHasher {
	t.Helper()
	h, err := cryptox.NewPasswordHasher(cryptox.AlgorithmBcrypt, bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func testCodec(t *testing.T, secret string) *auth.TokenCodec {
	t.Helper()
	c, err := auth.NewTokenCodec([]byte(secret), "HS256", 30*time.Minute)
	require.NoError(t, err)
	return c
}

func newAuthService(t *testing.T, m repomanager.RepositoryManager, tokens TokenCodec) *AuthService {
	t.Helper()
	s, err := NewAuthService(m, testHasher(t), tokens, &config.Config{MinPasswordLength: 8}, nopLogger{})
	require.NoError(t, err)
	return s
}

// fakeUsersRepo lets tests inject store failures.
type fakeUsersRepo struct {
	getOut *models.User
	getErr error

	createErr error
	deleteErr error

	created []*models.User
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(context.Context, string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetUserByID(context.Context, string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) Delete(context.Context, string) error { return f.deleteErr }

type fakeTasksRepo struct {
	err error
}

func (f *fakeTasksRepo) Create(context.Context, *models.Task) (*models.Task, error) {
	return nil, f.err
}

func (f *fakeTasksRepo) ListByUser(context.Context, string) ([]*models.Task, error) {
	return nil, f.err
}

func (f *fakeTasksRepo) Get(context.Context, string, string) (*models.Task, error) {
	return nil, f.err
}

func (f *fakeTasksRepo) Update(context.Context, *models.Task) (*models.Task, error) {
	return nil, f.err
}

func (f *fakeTasksRepo) Delete(context.Context, string, string) error { return f.err }

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTasksRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context) error { return nil }
func (m *fakeRepoManager) Users() users.Repository           { return m.u }
func (m *fakeRepoManager) Tasks() tasks.Repository           { return m.t }
func (m *fakeRepoManager) Close() error                      { return nil }
func (m *fakeRepoManager) WithTx(ctx context.Context, fn func(context.Context, repomanager.Repositories) error) error {
	return fn(ctx, repomanager.Repositories{Users: m.u, Tasks: m.t})
}
