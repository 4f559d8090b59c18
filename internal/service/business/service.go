package business

import (
	"context"
	"fmt"

	"github.com/avantix/ttw-backend-go/internal/domain/business"
	"github.com/go-chi/jwtauth/v5"
)

type BusinessServiceImpl struct {
	businessRepo business.BusinessRepository
}

func NewBusinessService(businessRepo business.BusinessRepository) business.BusinessService {
	return &BusinessServiceImpl{businessRepo: businessRepo}
}

// Helper to get business_id from JWT context
func getClaimsFromContext(ctx context.Context) (businessID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	businessID, ok := claims["business_id"].(string)
	if !ok || businessID == "" {
		return "", fmt.Errorf("business_id claim is missing or invalid")
	}

	return businessID, nil
}

func toResponse(b business.Business) business.BusinessResponse {
	return business.BusinessResponse{
		ID:                        b.ID,
		Name:                      b.Name,
		CedulaJuridica:            b.CedulaJuridica,
		LogoURL:                   b.LogoURL,
		DefaultOvertimeMultiplier: b.DefaultOvertimeMultiplier,
		CycleType:                 string(b.CycleType),
		Status:                    string(b.Status),
	}
}

func (s *BusinessServiceImpl) GetSettings(ctx context.Context) (business.BusinessResponse, error) {
	businessID, err := getClaimsFromContext(ctx)
	if err != nil {
		return business.BusinessResponse{}, err
	}

	b, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return business.BusinessResponse{}, err
	}

	return toResponse(b), nil
}

func (s *BusinessServiceImpl) UpdateSettings(ctx context.Context, req business.UpdateBusinessRequest) (business.BusinessResponse, error) {
	if err := req.Validate(); err != nil {
		return business.BusinessResponse{}, err
	}

	businessID, err := getClaimsFromContext(ctx)
	if err != nil {
		return business.BusinessResponse{}, err
	}

	b, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return business.BusinessResponse{}, err
	}

	if req.Name != nil {
		b.Name = *req.Name
	}
	if req.CedulaJuridica != nil {
		b.CedulaJuridica = req.CedulaJuridica
	}
	if req.LogoURL != nil {
		b.LogoURL = req.LogoURL
	}
	if req.DefaultOvertimeMultiplier != nil {
		b.DefaultOvertimeMultiplier = *req.DefaultOvertimeMultiplier
	}
	if req.CycleType != nil {
		b.CycleType = business.CycleType(*req.CycleType)
	}

	updated, err := s.businessRepo.Update(ctx, b)
	if err != nil {
		return business.BusinessResponse{}, err
	}

	return toResponse(updated), nil
}
