package auth

import (
	"context"

	"github.com/avantix/ttw-backend-go/internal/domain/employee"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)

	// RefreshToken trades a valid, unrevoked refresh token for a new access
	// token.
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)

	// LoginWithPIN authenticates a kiosk marker by employee PIN and issues a
	// marker-scoped token.
	LoginWithPIN(ctx context.Context, businessID string, req employee.PINLoginRequest) (MarkerLoginResponse, error)
}
