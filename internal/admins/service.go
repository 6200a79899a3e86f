package admins

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	pkgAuth "github.com/hillview-school/school-cms/pkg/auth"
	"github.com/hillview-school/school-cms/pkg/config"
	"github.com/hillview-school/school-cms/pkg/db"
	"github.com/hillview-school/school-cms/pkg/db/models"
	pkgerrors "github.com/hillview-school/school-cms/pkg/errors"
	"github.com/hillview-school/school-cms/pkg/logger"
	"github.com/hillview-school/school-cms/pkg/security"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	generatedPasswordLength   = 16
)

var validate = validator.New()

// Service covers admin sign-in and account maintenance.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, claims *pkgAuth.AccessTokenClaims) error
	Me(ctx context.Context, id uint) (*AdminDTO, error)
	Create(ctx context.Context, req CreateRequest) (*Credentials, error)
	ResetPassword(ctx context.Context, email, password string) (*Credentials, error)
}

type adminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	FindByID(ctx context.Context, id uint) (*models.Admin, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
}

type tokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

type ServiceParams struct {
	Repo        adminRepository
	Revocations tokenRevoker
	JWT         config.JWTConfig
	Password    config.PasswordConfig
	Logger      *logger.Logger
	Now         func() time.Time
}

type service struct {
	repo     adminRepository
	revoker  tokenRevoker
	jwtCfg   config.JWTConfig
	password config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the admin service. Revocations is optional; without it
// logout only discards the token client-side.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("admin repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		revoker:  params.Revocations,
		jwtCfg:   params.JWT,
		password: params.Password,
		logg:     params.Logger,
		now:      now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	admin, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup admin")
	}

	valid, err := security.VerifyPassword(req.Password, admin.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !admin.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	now := s.now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	admin.LastLoginAt = &now
	s.upgradeHash(ctx, admin, req.Password)

	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{AdminID: admin.ID, Email: admin.Email})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	ctx = s.logg.WithAdminID(ctx, admin.ID)
	s.logg.Info(ctx, "admin.login")

	return &LoginResponse{
		AccessToken: token,
		ExpiresAt:   now.Add(time.Duration(s.jwtCfg.ExpirationMinutes) * time.Minute),
		Admin:       FromModel(admin),
	}, nil
}

// upgradeHash re-hashes with the current parameters. Failure only costs a
// slower verify next time.
func (s *service) upgradeHash(ctx context.Context, admin *models.Admin, password string) {
	if !security.NeedsRehash(admin.PasswordHash, s.password) {
		return
	}
	hash, err := security.HashPassword(password, s.password)
	if err == nil {
		err = s.repo.UpdatePasswordHash(ctx, admin.ID, hash)
	}
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "admin.rehash_failed")
	}
}

func (s *service) Logout(ctx context.Context, claims *pkgAuth.AccessTokenClaims) error {
	if claims == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing token")
	}
	if s.revoker == nil {
		return nil
	}
	var expires time.Time
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	if err := s.revoker.Revoke(ctx, claims.ID, expires); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke token")
	}
	s.logg.Info(s.logg.WithAdminID(ctx, claims.AdminID), "admin.logout")
	return nil
}

func (s *service) Me(ctx context.Context, id uint) (*AdminDTO, error) {
	admin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup admin")
	}
	if !admin.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin account is disabled")
	}
	dto := FromModel(admin)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Credentials, error) {
	email := normalizeEmail(req.Email)
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	password, generated, err := s.choosePassword(req.Password)
	if err != nil {
		return nil, err
	}
	hash, err := security.HashPassword(password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	admin := &models.Admin{Email: email, Name: name, PasswordHash: hash, IsActive: true}
	if err := s.repo.Create(ctx, admin); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an admin with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create admin")
	}

	s.logg.Info(s.logg.WithAdminID(ctx, admin.ID), "admin.created")
	return credentials(admin, password, generated), nil
}

func (s *service) ResetPassword(ctx context.Context, email, password string) (*Credentials, error) {
	admin, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "admin not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup admin")
	}

	password, generated, err := s.choosePassword(password)
	if err != nil {
		return nil, err
	}
	hash, err := security.HashPassword(password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.repo.UpdatePasswordHash(ctx, admin.ID, hash); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}
	admin.IsActive = true

	s.logg.Info(s.logg.WithAdminID(ctx, admin.ID), "admin.password_reset")
	return credentials(admin, password, generated), nil
}

func (s *service) choosePassword(password string) (string, bool, error) {
	if password == "" {
		generated, err := security.GenerateTempPassword(generatedPasswordLength)
		if err != nil {
			return "", false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate password")
		}
		return generated, true, nil
	}
	if len([]rune(password)) < security.MinPasswordLength {
		return "", false, pkgerrors.New(pkgerrors.CodeValidation, security.ErrWeakPassword.Error())
	}
	return password, false, nil
}

func credentials(admin *models.Admin, password string, generated bool) *Credentials {
	out := &Credentials{Admin: FromModel(admin)}
	if generated {
		out.Password = password
	}
	return out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
