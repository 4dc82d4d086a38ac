package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fundacion-portal-backend/internal/domains/staff/model"
	"fundacion-portal-backend/internal/domains/staff/repository"
	"fundacion-portal-backend/pkg/jwt"
	"fundacion-portal-backend/pkg/logger"
)

// ServiceInterface defines the staff auth operations.
type ServiceInterface interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	Profile(ctx context.Context, id uuid.UUID) (*model.Staff, error)
}

type staffService struct {
	repo repository.RepositoryInterface
	jwt  *jwt.Manager
}

// NewStaffService wires the staff auth logic.
func NewStaffService(repo repository.RepositoryInterface, jwtManager *jwt.Manager) ServiceInterface {
	return &staffService{repo: repo, jwt: jwtManager}
}

func (s *staffService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidCredentialsError()
	}

	staff, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			// Burn a hash comparison anyway so a missing account takes
			// as long as a wrong password.
			_ = bcrypt.CompareHashAndPassword([]byte("$2a$12$invalidinvalidinvalidinvalidinvalid"), []byte(req.Password))
			return nil, model.NewInvalidCredentialsError()
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("failed login attempt", map[string]interface{}{"email": req.Email})
		return nil, model.NewInvalidCredentialsError()
	}
	if !staff.IsActive {
		return nil, model.NewAccountDisabledError()
	}

	token, err := s.jwt.GenerateToken(staff.ID.String(), staff.Email, staff.Role)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, staff.ID, now); err != nil {
		logger.Warn("last login update failed", map[string]interface{}{"error": err.Error()})
	}
	staff.LastLoginAt = &now

	return &model.LoginResponse{Token: token, Staff: *staff}, nil
}

func (s *staffService) Profile(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	staff, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewNotFoundError()
		}
		return nil, err
	}
	return staff, nil
}
