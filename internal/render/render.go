// Package render turns board state into display markup. Every function
// is a pure state-to-HTML mapping; callers re-invoke them after each
// mutation to keep views consistent with the stored collection.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"connectideas/api/internal/ideas"
	"connectideas/api/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates *template.Template

const recentCount = 3

func init() {
	funcMap := template.FuncMap{
		"statusClass": statusClass,
		"statuses": func() []ideas.Status {
			return []ideas.Status{ideas.StatusPending, ideas.StatusShortlisted, ideas.StatusFunded}
		},
		// Idea images are data URIs the service itself encoded; mark them
		// usable in src attributes.
		"dataURI": func(s *string) template.URL {
			if s == nil {
				return ""
			}
			return template.URL(*s)
		},
	}
	templates = template.Must(template.New("board").Funcs(funcMap).ParseFS(templateFS, "templates/*.html"))
}

func statusClass(status ideas.Status) string {
	switch status {
	case ideas.StatusShortlisted:
		return "status-shortlisted"
	case ideas.StatusFunded:
		return "status-funded"
	default:
		return "status-pending"
	}
}

type listData struct {
	Ideas []ideas.Idea
}

type adminData struct {
	IsAdmin bool
	Ideas   []ideas.Idea
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// IdeaList renders one summary card per idea in insertion order, or the
// empty-board placeholder.
func IdeaList(collection []ideas.Idea) (string, error) {
	return execute("idea_list.html", listData{Ideas: collection})
}

// RecentIdeas renders the three newest ideas, always expanded.
func RecentIdeas(collection []ideas.Idea) (string, error) {
	return execute("recent_ideas.html", listData{Ideas: ideas.Recent(collection, recentCount)})
}

// AdminPanel renders a status selector row per idea for admins and a
// login prompt for everyone else.
func AdminPanel(user session.User, loggedIn bool, collection []ideas.Idea) (string, error) {
	return execute("admin_panel.html", adminData{
		IsAdmin: loggedIn && user.Role == "Admin",
		Ideas:   collection,
	})
}

// Welcome is the dashboard greeting line.
func Welcome(user session.User, loggedIn bool) string {
	if loggedIn {
		return fmt.Sprintf("Welcome, %s (%s)", user.Name, user.Role)
	}
	return "Welcome to the Connect Ideas dashboard. Log in to personalize your view."
}
