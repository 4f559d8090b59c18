package auth

import (
	"context"
	"errors"

	"github.com/avantix/ttw-backend-go/internal/domain/auth"
	"github.com/avantix/ttw-backend-go/internal/domain/business"
	"github.com/avantix/ttw-backend-go/internal/domain/employee"
	"github.com/avantix/ttw-backend-go/internal/domain/user"
	"github.com/avantix/ttw-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	userRepo     user.UserRepository
	employeeRepo employee.EmployeeRepository
	businessRepo business.BusinessRepository
	jwtService   jwt.Service
}

func NewAuthService(
	userRepo user.UserRepository,
	employeeRepo employee.EmployeeRepository,
	businessRepo business.BusinessRepository,
	jwtService jwt.Service,
) auth.AuthService {
	return &AuthServiceImpl{
		userRepo:     userRepo,
		employeeRepo: employeeRepo,
		businessRepo: businessRepo,
		jwtService:   jwtService,
	}
}

func (s *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	b, err := s.businessRepo.GetByID(ctx, u.BusinessID)
	if err != nil {
		return auth.LoginResponse{}, err
	}
	if b.Status == business.StatusSuspended {
		return auth.LoginResponse{}, business.ErrBusinessSuspended
	}

	accessToken, accessExpiresAt, err := s.jwtService.GenerateAccessToken(u.ID, u.Email, u.BusinessID, u.Role)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	refreshToken, refreshExpiresAt, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	return auth.LoginResponse{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresIn:  accessExpiresAt,
		RefreshTokenExpiresIn: refreshExpiresAt,
		BusinessID:            u.BusinessID,
		Role:                  string(u.Role),
	}, nil
}

func (s *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	token, err := jwtauth.VerifyToken(s.jwtService.JWTAuth(), req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	if tokenType, ok := claims["type"].(string); !ok || tokenType != "refresh" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	if s.jwtService.IsTokenRevoked(req.RefreshToken) {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return auth.AccessTokenResponse{}, err
	}

	b, err := s.businessRepo.GetByID(ctx, u.BusinessID)
	if err != nil {
		return auth.AccessTokenResponse{}, err
	}
	if b.Status == business.StatusSuspended {
		return auth.AccessTokenResponse{}, business.ErrBusinessSuspended
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(u.ID, u.Email, u.BusinessID, u.Role)
	if err != nil {
		return auth.AccessTokenResponse{}, err
	}

	return auth.AccessTokenResponse{
		AccessToken:          accessToken,
		AccessTokenExpiresIn: expiresAt,
	}, nil
}

// LoginWithPIN trades an employee PIN for a marker token. The business comes
// from the kiosk URL, not from a claim; unknown or inactive PINs are
// indistinguishable from each other in the response.
func (s *AuthServiceImpl) LoginWithPIN(ctx context.Context, businessID string, req employee.PINLoginRequest) (auth.MarkerLoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.MarkerLoginResponse{}, err
	}

	b, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return auth.MarkerLoginResponse{}, err
	}
	if b.Status == business.StatusSuspended {
		return auth.MarkerLoginResponse{}, business.ErrBusinessSuspended
	}

	emp, err := s.employeeRepo.GetByPIN(ctx, req.PIN, businessID)
	if err != nil {
		return auth.MarkerLoginResponse{}, err
	}

	token, expiresAt, err := s.jwtService.GenerateMarkerToken(emp.ID, businessID)
	if err != nil {
		return auth.MarkerLoginResponse{}, err
	}

	return auth.MarkerLoginResponse{
		AccessToken:  token,
		ExpiresAt:    expiresAt,
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
	}, nil
}
