package auth

import (
	"context"
	"errors"
	"strings"

	"voyarental/internal/domain"
	jwtsvc "voyarental/internal/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	admins  adminRepo
	jwt     *jwtsvc.Service
	loggerf func(format string, args ...interface{})
}

func NewService(admins adminRepo, jwt *jwtsvc.Service, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{admins: admins, jwt: jwt, loggerf: loggerf}
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	admin, err := s.admins.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		s.loggerf("level=warn msg=failed login attempt email=%s", req.Email)
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(admin.ID, admin.Email, string(admin.Role))
	if err != nil {
		return nil, err
	}

	s.loggerf("level=info msg=admin logged in admin_id=%d", admin.ID)
	return &LoginResponse{Token: token, Admin: toAdminResponse(admin)}, nil
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AdminResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := domain.AdminRole(req.Role)
	if role == "" {
		role = domain.RoleAdmin
	}

	admin := &domain.Admin{
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.loggerf("level=info msg=admin registered admin_id=%d role=%s", admin.ID, admin.Role)
	resp := toAdminResponse(admin)
	return &resp, nil
}

func (s *Service) Me(ctx context.Context, adminID int64) (*AdminResponse, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	resp := toAdminResponse(admin)
	return &resp, nil
}

func toAdminResponse(a *domain.Admin) AdminResponse {
	return AdminResponse{
		ID:    a.ID,
		Name:  a.Name,
		Email: a.Email,
		Role:  string(a.Role),
	}
}
