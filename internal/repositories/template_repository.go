package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"rental-backend/internal/models"
)

// templateID is the id of the single active template row
const templateID = 1

type TemplateRepository struct {
	DB *pgxpool.Pool
}

func NewTemplateRepository(db *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{DB: db}
}

// GetActive returns the active template or ErrNotFound when none is stored
func (r *TemplateRepository) GetActive(ctx context.Context) (*models.AgreementTemplate, error) {
	var t models.AgreementTemplate
	err := r.DB.QueryRow(ctx,
		`SELECT id, content, updated_at FROM agreement_templates WHERE id=$1`, templateID,
	).Scan(&t.ID, &t.Content, &t.UpdatedAt)
	if err != nil {
		return nil, translate("get template", err)
	}
	return &t, nil
}

// Save replaces the active template content
func (r *TemplateRepository) Save(ctx context.Context, content string) (*models.AgreementTemplate, error) {
	var t models.AgreementTemplate
	err := r.DB.QueryRow(ctx,
		`INSERT INTO agreement_templates(id, content) VALUES($1, $2)
         ON CONFLICT (id) DO UPDATE SET content=EXCLUDED.content, updated_at=NOW()
         RETURNING id, content, updated_at`,
		templateID, content,
	).Scan(&t.ID, &t.Content, &t.UpdatedAt)
	if err != nil {
		return nil, translate("save template", err)
	}
	return &t, nil
}
