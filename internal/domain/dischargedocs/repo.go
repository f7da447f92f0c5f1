package dischargedocs

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows document listings. Zero values mean "no filter".
type ListFilter struct {
	PatientRef   string
	ReviewStatus string
}

type Repository interface {
	Create(ctx context.Context, d *DischargeDocument) error
	GetByID(ctx context.Context, id uuid.UUID) (*DischargeDocument, error)
	Update(ctx context.Context, d *DischargeDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*DischargeDocument, int, error)
}

type ParserConfigRepository interface {
	Get(ctx context.Context, tenantID string) (*ParserConfig, error)
	Upsert(ctx context.Context, cfg *ParserConfig) error
	ListAll(ctx context.Context) ([]*ParserConfig, error)
}
