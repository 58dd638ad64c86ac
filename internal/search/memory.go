package search

import (
	"context"
	"strings"

	"connectideas/api/internal/ideas"
)

// Memory is the fallback searcher: a case-insensitive substring scan over
// the live collection. Always healthy; used when Meilisearch is not
// configured or unreachable.
type Memory struct {
	load func(context.Context) ([]ideas.Idea, error)
}

// NewMemory creates the fallback searcher around a collection loader.
func NewMemory(load func(context.Context) ([]ideas.Idea, error)) *Memory {
	return &Memory{load: load}
}

func (m *Memory) Healthy() bool {
	return true
}

// Search scans title, description, owner and university for the query
// text. An empty query matches everything.
func (m *Memory) Search(q Query) ([]Result, int, error) {
	collection, err := m.load(context.Background())
	if err != nil {
		return nil, 0, err
	}

	needle := strings.ToLower(strings.TrimSpace(q.Text))
	var matched []Result
	for _, idea := range collection {
		if q.FilterStatus != "" && string(idea.Status) != q.FilterStatus {
			continue
		}
		if needle != "" && !matchesIdea(idea, needle) {
			continue
		}
		matched = append(matched, Result{
			ID:         idea.ID,
			Title:      idea.Title,
			Snippet:    snippet(idea.Description),
			OwnerName:  idea.OwnerName,
			University: idea.University,
			Status:     string(idea.Status),
		})
	}

	total := len(matched)
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []Result{}, total, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func matchesIdea(idea ideas.Idea, needle string) bool {
	for _, field := range []string{idea.Title, idea.Description, idea.OwnerName, idea.University} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
