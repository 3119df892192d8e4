// Package maintenance implements the synchronous housekeeping commands
// exposed through the action endpoint.
package maintenance

import (
	"fmt"
	"log"

	"github.com/mrlokans/brickstock/internal/entities"
)

// Repository is the persistence surface the maintenance commands need.
// *parts.Repository implements it.
type Repository interface {
	GetOrCreateParameterTemplate(name, units string) (*entities.PartParameterTemplate, bool, error)
	ClearMetadata() (int64, error)
}

// defaultTemplates are the standard LEGO part parameter templates.
var defaultTemplates = []entities.PartParameterTemplate{
	{Name: "Width", Units: "studs"},
	{Name: "Length", Units: "studs"},
	{Name: "Height", Units: "bricks"},
	{Name: "Weight", Units: "g"},
	{Name: "Color"},
}

// Service runs maintenance commands against the inventory.
type Service struct {
	repo Repository
}

// NewService creates a new maintenance service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreatePartParameterTemplates seeds the standard parameter templates,
// returning how many were newly created. Safe to run repeatedly.
func (s *Service) CreatePartParameterTemplates() (int, error) {
	created := 0
	for _, tmpl := range defaultTemplates {
		_, isNew, err := s.repo.GetOrCreateParameterTemplate(tmpl.Name, tmpl.Units)
		if err != nil {
			return created, fmt.Errorf("create parameter template %q: %w", tmpl.Name, err)
		}
		if isNew {
			created++
		}
	}

	if created > 0 {
		log.Printf("Created %d part parameter templates", created)
	}
	return created, nil
}

// ClearMetadata blanks the metadata field on every part.
func (s *Service) ClearMetadata() (int64, error) {
	cleared, err := s.repo.ClearMetadata()
	if err != nil {
		return 0, fmt.Errorf("clear part metadata: %w", err)
	}

	log.Printf("Cleared metadata on %d parts", cleared)
	return cleared, nil
}
