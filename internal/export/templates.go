package export

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"connectideas/api/internal/ideas"
)

//go:embed templates/*.html
var templateFS embed.FS

var dashboardTemplate *template.Template

func init() {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time, layout string) string {
			return t.Format(layout)
		},
		"statusClass": func(status ideas.Status) string {
			switch status {
			case ideas.StatusShortlisted:
				return "status-shortlisted"
			case ideas.StatusFunded:
				return "status-funded"
			default:
				return "status-pending"
			}
		},
	}

	content, err := templateFS.ReadFile("templates/dashboard.html")
	if err != nil {
		panic("export: missing embedded dashboard template: " + err.Error())
	}
	dashboardTemplate = template.Must(template.New("dashboard").Funcs(funcMap).Parse(string(content)))
}

// TemplateData holds the dashboard snapshot rendered into the PDF.
type TemplateData struct {
	Stats       ideas.Stats
	Ideas       []ideas.Idea
	GeneratedAt time.Time
}

// RenderDashboardHTML renders the dashboard template with provided data.
func RenderDashboardHTML(data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
