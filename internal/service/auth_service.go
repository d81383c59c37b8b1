package service

import (
	"context"
	"fmt"
	"time"

	"till-reconciliation-engine/internal/core/domain"
	"till-reconciliation-engine/internal/core/ports"
	"till-reconciliation-engine/pkg/apperror"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	employeeRepo ports.EmployeeRepository
	hashSvc      ports.HashService
	tokenSvc     ports.TokenService
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	employeeRepo ports.EmployeeRepository,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		employeeRepo: employeeRepo,
		hashSvc:      hashSvc,
		tokenSvc:     tokenSvc,
	}
}

// Register creates a new till operator account.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*domain.Employee, error) {
	if req.Usuario == "" || req.Password == "" {
		return nil, apperror.Validation("usuario and password are required")
	}

	existing, err := s.employeeRepo.GetByUsername(ctx, req.Usuario)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("check username: %w", err))
	}
	if existing != nil {
		return nil, apperror.Validation("usuario already exists")
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	employee := &domain.Employee{
		Nombre:       req.Nombre,
		Usuario:      req.Usuario,
		PasswordHash: passwordHash,
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create employee: %w", err))
	}
	return employee, nil
}

// Login verifies credentials and issues a JWT.
func (s *AuthServiceImpl) Login(ctx context.Context, usuario, password string) (string, time.Time, error) {
	employee, err := s.employeeRepo.GetByUsername(ctx, usuario)
	if err != nil {
		return "", time.Time{}, apperror.ErrDatabaseError(fmt.Errorf("get employee: %w", err))
	}
	if employee == nil {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	ok, err := s.hashSvc.Verify(password, employee.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !ok {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiresAt, err := s.tokenSvc.Generate(employee.ID.Int(), employee.Usuario)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}
	return token, expiresAt, nil
}
