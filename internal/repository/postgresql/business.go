package postgresql

import (
	"context"
	"fmt"

	"github.com/avantix/ttw-backend-go/internal/domain/business"
	"github.com/avantix/ttw-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type businessRepository struct {
	db *database.DB
}

func NewBusinessRepository(db *database.DB) business.BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) GetByID(ctx context.Context, id string) (business.Business, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, cedula_juridica, logo_url, default_overtime_multiplier,
			   cycle_type, status, created_at, updated_at
		FROM businesses
		WHERE id = $1
	`

	var b business.Business
	err := q.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.Name, &b.CedulaJuridica, &b.LogoURL, &b.DefaultOvertimeMultiplier,
		&b.CycleType, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return business.Business{}, business.ErrBusinessNotFound
		}
		return business.Business{}, fmt.Errorf("failed to get business: %w", err)
	}

	return b, nil
}

func (r *businessRepository) Update(ctx context.Context, b business.Business) (business.Business, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE businesses
		SET name = $1, cedula_juridica = $2, logo_url = $3,
			default_overtime_multiplier = $4, cycle_type = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING id, name, cedula_juridica, logo_url, default_overtime_multiplier,
			cycle_type, status, created_at, updated_at
	`

	var updated business.Business
	err := q.QueryRow(ctx, query,
		b.Name, b.CedulaJuridica, b.LogoURL, b.DefaultOvertimeMultiplier, b.CycleType, b.ID,
	).Scan(
		&updated.ID, &updated.Name, &updated.CedulaJuridica, &updated.LogoURL,
		&updated.DefaultOvertimeMultiplier, &updated.CycleType, &updated.Status,
		&updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return business.Business{}, business.ErrBusinessNotFound
		}
		return business.Business{}, fmt.Errorf("failed to update business: %w", err)
	}

	return updated, nil
}
