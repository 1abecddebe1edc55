package services

import (
	"context"
	"errors"
	"time"

	"rental-backend/internal/agreement"
	"rental-backend/internal/billing"
	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"
)

type TemplateService struct {
	Repo   TemplateStore
	Format billing.Formatter
	Now    func() time.Time
}

func NewTemplateService(repo TemplateStore, format billing.Formatter) *TemplateService {
	return &TemplateService{Repo: repo, Format: format, Now: timeutil.Now}
}

// GetTemplate returns the active template, ErrNotFound when none is stored
func (s *TemplateService) GetTemplate(ctx context.Context) (*models.AgreementTemplate, error) {
	return s.Repo.GetActive(ctx)
}

// SaveTemplate replaces the active template. Agreements already generated
// are not affected.
func (s *TemplateService) SaveTemplate(ctx context.Context, content string) (*models.AgreementTemplate, error) {
	if err := agreement.Validate(content); err != nil {
		return nil, err
	}
	return s.Repo.Save(ctx, content)
}

// Placeholders lists the recognized token names
func (s *TemplateService) Placeholders() []string {
	return append([]string(nil), agreement.Placeholders...)
}

// Preview renders content, or the stored template when content is empty,
// against sample booking values
func (s *TemplateService) Preview(ctx context.Context, content string) (*models.TemplatePreview, error) {
	if content == "" {
		tpl, err := s.Repo.GetActive(ctx)
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrTemplateMissing
		}
		if err != nil {
			return nil, err
		}
		content = tpl.Content
	}

	_, unknown, err := agreement.Inspect(content)
	if err != nil {
		return nil, err
	}
	html, err := agreement.Render(content, agreement.SampleValues(s.Now(), s.Format))
	if err != nil {
		return nil, err
	}
	if unknown == nil {
		unknown = []string{}
	}
	return &models.TemplatePreview{HTML: html, Unknown: unknown}, nil
}
