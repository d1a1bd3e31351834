package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yogeshtripathi1231/library/model"
	userrepo "github.com/yogeshtripathi1231/library/repository/user"
	"github.com/yogeshtripathi1231/library/util/hash"
	jwtutil "github.com/yogeshtripathi1231/library/util/jwt"
)

type ErrCode string

const (
	ErrEmailTaken    ErrCode = "EMAIL_TAKEN"
	ErrBadInput      ErrCode = "BAD_INPUT"
	ErrInvalidCreds  ErrCode = "INVALID_CREDENTIALS"
	ErrInvalidToken  ErrCode = "INVALID_TOKEN"
	ErrNotAdmin      ErrCode = "NOT_ADMIN"
	ErrBadSecret     ErrCode = "BAD_ADMIN_SECRET"
	ErrNoAdminSecret ErrCode = "ADMIN_SECRET_UNSET"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Tokens is the access/refresh pair handed out on register and login.
type Tokens struct {
	Access  string `json:"accessToken"`
	Refresh string `json:"refreshToken"`
}

const (
	accessTTLHours  = 24
	refreshTTLHours = 24 * 7
)

type Service interface {
	Register(ctx context.Context, req model.RegisterReq) (*model.User, Tokens, error)
	Login(ctx context.Context, req model.LoginReq) (*model.User, Tokens, error)
	// Refresh trades a valid refresh token for a fresh access token.
	Refresh(ctx context.Context, refreshToken string) (string, error)

	// RegisterAdmin requires the process-wide admin secret.
	RegisterAdmin(ctx context.Context, req model.AdminRegisterReq, headerSecret string) (*model.User, Tokens, error)
	// LoginAdmin is Login restricted to admin accounts.
	LoginAdmin(ctx context.Context, req model.LoginReq) (*model.User, Tokens, error)
	// CreateAdmin provisions an admin account on behalf of an existing
	// admin; the caller is gated by middleware, not by the secret.
	CreateAdmin(ctx context.Context, req model.RegisterReq) (*model.User, error)
}

type service struct {
	ur            userrepo.Repo
	jwtSecret     string
	refreshSecret string
	adminSecret   string
}

func New(ur userrepo.Repo, jwtSecret, refreshSecret, adminSecret string) Service {
	return &service{ur: ur, jwtSecret: jwtSecret, refreshSecret: refreshSecret, adminSecret: adminSecret}
}

func (s *service) Register(ctx context.Context, req model.RegisterReq) (*model.User, Tokens, error) {
	return s.register(ctx, req.Name, req.Email, req.Password, model.RoleUser)
}

func (s *service) register(ctx context.Context, name, email, password, role string) (*model.User, Tokens, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if strings.TrimSpace(name) == "" || email == "" || len(password) < 6 {
		return nil, Tokens{}, makeErr(ErrBadInput)
	}

	existing, err := s.ur.ByEmail(ctx, email)
	if err != nil {
		return nil, Tokens{}, err
	}
	if existing != nil {
		return nil, Tokens{}, makeErr(ErrEmailTaken)
	}

	hashed, err := hash.HashPassword(password)
	if err != nil {
		return nil, Tokens{}, err
	}

	u := &model.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
	}
	if err := s.ur.Create(ctx, u); err != nil {
		if isUniqueViolation(err) {
			return nil, Tokens{}, makeErr(ErrEmailTaken)
		}
		return nil, Tokens{}, err
	}

	toks, err := s.issueTokens(u)
	if err != nil {
		return nil, Tokens{}, err
	}
	return u, toks, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.User, Tokens, error) {
	return s.login(ctx, req, false)
}

func (s *service) LoginAdmin(ctx context.Context, req model.LoginReq) (*model.User, Tokens, error) {
	return s.login(ctx, req, true)
}

func (s *service) login(ctx context.Context, req model.LoginReq, adminOnly bool) (*model.User, Tokens, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, Tokens{}, makeErr(ErrBadInput)
	}

	u, err := s.ur.ByEmail(ctx, email)
	if err != nil {
		return nil, Tokens{}, err
	}
	if u == nil || !hash.Check(u.PasswordHash, req.Password) {
		return nil, Tokens{}, makeErr(ErrInvalidCreds)
	}
	if adminOnly && u.Role != model.RoleAdmin {
		return nil, Tokens{}, makeErr(ErrNotAdmin)
	}

	toks, err := s.issueTokens(u)
	if err != nil {
		return nil, Tokens{}, err
	}
	return u, toks, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	uid, err := jwtutil.ParseRefresh(refreshToken, s.refreshSecret)
	if err != nil {
		return "", makeErr(ErrInvalidToken)
	}

	// Re-read the user so a role change since issuance is honored.
	u, err := s.ur.ByID(ctx, uid)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", makeErr(ErrInvalidToken)
	}
	return jwtutil.Issue(s.jwtSecret, u.ID, u.Role, accessTTLHours)
}

func (s *service) RegisterAdmin(ctx context.Context, req model.AdminRegisterReq, headerSecret string) (*model.User, Tokens, error) {
	if s.adminSecret == "" {
		return nil, Tokens{}, makeErr(ErrNoAdminSecret)
	}
	secret := headerSecret
	if secret == "" {
		secret = req.AdminSecret
	}
	if secret != s.adminSecret {
		return nil, Tokens{}, makeErr(ErrBadSecret)
	}
	return s.register(ctx, req.Name, req.Email, req.Password, model.RoleAdmin)
}

func (s *service) CreateAdmin(ctx context.Context, req model.RegisterReq) (*model.User, error) {
	u, _, err := s.register(ctx, req.Name, req.Email, req.Password, model.RoleAdmin)
	return u, err
}

func (s *service) issueTokens(u *model.User) (Tokens, error) {
	access, err := jwtutil.Issue(s.jwtSecret, u.ID, u.Role, accessTTLHours)
	if err != nil {
		return Tokens{}, err
	}
	refresh, err := jwtutil.IssueRefresh(s.refreshSecret, u.ID, refreshTTLHours)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{Access: access, Refresh: refresh}, nil
}
