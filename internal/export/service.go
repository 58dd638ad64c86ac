package export

import (
	"fmt"
	"time"

	"connectideas/api/internal/ideas"
)

// Service turns a board snapshot into a downloadable dashboard PDF.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// ExportDashboard renders the dashboard for the given collection and
// converts it to PDF.
func (s *Service) ExportDashboard(collection []ideas.Idea) (*Result, error) {
	data := TemplateData{
		Stats:       ideas.CountByStatus(collection),
		Ideas:       collection,
		GeneratedAt: time.Now(),
	}

	html, err := RenderDashboardHTML(data)
	if err != nil {
		return nil, fmt.Errorf("render dashboard: %w", err)
	}

	return exportPDF(html, "Connect Ideas Dashboard")
}
