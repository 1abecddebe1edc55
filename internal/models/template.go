package models

import "time"

// AgreementTemplate is the single active agreement template
type AgreementTemplate struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TemplateRequest is the body of template save and preview calls
type TemplateRequest struct {
	Content string `json:"content"`
}

// TemplatePreview is a template rendered against sample values
type TemplatePreview struct {
	HTML    string   `json:"html"`
	Unknown []string `json:"unknownPlaceholders"`
}
