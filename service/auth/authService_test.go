// service/auth/auth_service_test.go
package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yogeshtripathi1231/library/model"
	userrepo "github.com/yogeshtripathi1231/library/repository/user"
	"github.com/yogeshtripathi1231/library/util/hash"
	jwtutil "github.com/yogeshtripathi1231/library/util/jwt"
)

type mockRepo struct {
	byEmailFn func(ctx context.Context, email string) (*model.User, error)
	byIDFn    func(ctx context.Context, id int64) (*model.User, error)
	createFn  func(ctx context.Context, u *model.User) error
}

var _ userrepo.Repo = (*mockRepo)(nil)

func (m *mockRepo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.byEmailFn == nil {
		return nil, nil
	}
	return m.byEmailFn(ctx, email)
}

func (m *mockRepo) ByID(ctx context.Context, id int64) (*model.User, error) {
	if m.byIDFn == nil {
		return nil, nil
	}
	return m.byIDFn(ctx, id)
}

func (m *mockRepo) Create(ctx context.Context, u *model.User) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, u)
}

func (m *mockRepo) List(ctx context.Context) ([]model.User, error) { return nil, nil }
func (m *mockRepo) Update(ctx context.Context, id int64, name, email, role string) (*model.User, error) {
	return nil, nil
}
func (m *mockRepo) Delete(ctx context.Context, id int64) (bool, error) { return false, nil }

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := hash.HashPassword(plain)
	require.NoError(t, err)
	return h
}

func newTestService(m *mockRepo) Service {
	return New(m, "test-secret", "test-refresh-secret", "test-admin-secret")
}

// --- tests ---

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	m := &mockRepo{
		createFn: func(ctx context.Context, u *model.User) error {
			u.ID = 42
			return nil
		},
	}
	svc := newTestService(m)

	u, toks, err := svc.Register(ctx, model.RegisterReq{
		Name:     "John Doe",
		Email:    "USER@Example.COM",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.NotNil(t, u)
	require.NotEmpty(t, toks.Access)
	require.NotEmpty(t, toks.Refresh)
	require.Equal(t, int64(42), u.ID)
	require.Equal(t, "user@example.com", u.Email)
	require.Equal(t, model.RoleUser, u.Role)
	require.NotEmpty(t, u.PasswordHash)
	require.NotEqual(t, "supersecret", u.PasswordHash)
}

func TestRegister_BadInput(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&mockRepo{})

	_, _, err := svc.Register(ctx, model.RegisterReq{
		Name:     " ",
		Email:    " ",
		Password: "123",
	})
	require.Error(t, err)
	require.Equal(t, ErrBadInput, Code(err))
}

func TestRegister_EmailTaken(t *testing.T) {
	ctx := context.Background()
	m := &mockRepo{
		byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: 9, Email: email}, nil
		},
	}
	svc := newTestService(m)

	_, _, err := svc.Register(ctx, model.RegisterReq{
		Name:     "John",
		Email:    "taken@example.com",
		Password: "123456",
	})
	require.Error(t, err)
	require.Equal(t, ErrEmailTaken, Code(err))
}

func TestRegister_CreateError(t *testing.T) {
	ctx := context.Background()
	m := &mockRepo{
		createFn: func(ctx context.Context, u *model.User) error {
			return errors.New("db down")
		},
	}
	svc := newTestService(m)

	_, _, err := svc.Register(ctx, model.RegisterReq{
		Name:     "John",
		Email:    "ok@example.com",
		Password: "123456",
	})
	require.Error(t, err)
	require.Equal(t, ErrCode(""), Code(err))
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	pw := "supersecret"
	hashed := mustHash(t, pw)

	m := &mockRepo{
		byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{
				ID:           7,
				Email:        "user@example.com",
				PasswordHash: hashed,
				Role:         model.RoleUser,
			}, nil
		},
	}
	svc := newTestService(m)

	u, toks, err := svc.Login(ctx, model.LoginReq{
		Email:    "User@Example.com",
		Password: pw,
	})
	require.NoError(t, err)
	require.NotNil(t, u)
	require.NotEmpty(t, toks.Access)
	require.Equal(t, int64(7), u.ID)
}

func TestLogin_UserNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&mockRepo{})

	_, _, err := svc.Login(ctx, model.LoginReq{
		Email:    "missing@example.com",
		Password: "whatever",
	})
	require.Error(t, err)
	require.Equal(t, ErrInvalidCreds, Code(err))
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	hashed := mustHash(t, "correct-password")

	m := &mockRepo{
		byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: 101, Email: email, PasswordHash: hashed, Role: model.RoleUser}, nil
		},
	}
	svc := newTestService(m)

	_, _, err := svc.Login(ctx, model.LoginReq{
		Email:    "user@example.com",
		Password: "wrong-password",
	})
	require.Error(t, err)
	require.Equal(t, ErrInvalidCreds, Code(err))
}

func TestLoginAdmin_RejectsRegularUser(t *testing.T) {
	ctx := context.Background()
	hashed := mustHash(t, "pw123456")
	m := &mockRepo{
		byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: 5, Email: email, PasswordHash: hashed, Role: model.RoleUser}, nil
		},
	}
	svc := newTestService(m)

	_, _, err := svc.LoginAdmin(ctx, model.LoginReq{Email: "user@example.com", Password: "pw123456"})
	require.Error(t, err)
	require.Equal(t, ErrNotAdmin, Code(err))
}

func TestRefresh_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m := &mockRepo{
		byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Role: model.RoleAdmin}, nil
		},
	}
	svc := newTestService(m)

	refresh, err := jwtutil.IssueRefresh("test-refresh-secret", 7, 1)
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, refresh)
	require.NoError(t, err)
	require.NotEmpty(t, access)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&mockRepo{})

	// An access token signed with the refresh secret still lacks the
	// refresh marker and must be rejected.
	tok, err := jwtutil.Issue("test-refresh-secret", 7, "user", 1)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, tok)
	require.Error(t, err)
	require.Equal(t, ErrInvalidToken, Code(err))
}

func TestRegisterAdmin_Secret(t *testing.T) {
	ctx := context.Background()
	m := &mockRepo{
		createFn: func(ctx context.Context, u *model.User) error {
			u.ID = 1
			return nil
		},
	}
	svc := newTestService(m)

	_, _, err := svc.RegisterAdmin(ctx, model.AdminRegisterReq{
		Name: "Admin", Email: "a@example.com", Password: "123456",
	}, "wrong")
	require.Error(t, err)
	require.Equal(t, ErrBadSecret, Code(err))

	u, _, err := svc.RegisterAdmin(ctx, model.AdminRegisterReq{
		Name: "Admin", Email: "a@example.com", Password: "123456",
	}, "test-admin-secret")
	require.NoError(t, err)
	require.Equal(t, model.RoleAdmin, u.Role)
}

func TestRegisterAdmin_SecretUnset(t *testing.T) {
	ctx := context.Background()
	svc := New(&mockRepo{}, "s", "r", "")

	_, _, err := svc.RegisterAdmin(ctx, model.AdminRegisterReq{
		Name: "Admin", Email: "a@example.com", Password: "123456",
	}, "anything")
	require.Error(t, err)
	require.Equal(t, ErrNoAdminSecret, Code(err))
}
