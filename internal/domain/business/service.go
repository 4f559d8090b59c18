package business

import "context"

type BusinessService interface {
	GetSettings(ctx context.Context) (BusinessResponse, error)
	UpdateSettings(ctx context.Context, req UpdateBusinessRequest) (BusinessResponse, error)
}
