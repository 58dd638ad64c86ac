package search

import (
	"log"
)

// Service is the facade that tries Meilisearch first and falls back to
// the in-memory scan.
type Service struct {
	meili  *Meili
	memory *Memory
}

// NewService creates a search service. meili may be nil if Meilisearch is
// not configured.
func NewService(meili *Meili, memory *Memory) *Service {
	return &Service{meili: meili, memory: memory}
}

// Search tries Meilisearch if healthy, otherwise scans the collection.
func (s *Service) Search(q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		log.Printf("search: meilisearch error, falling back to scan: %v", err)
	}

	results, total, err := s.memory.Search(q)
	if err != nil {
		log.Printf("search: scan error: %v", err)
		return Response{Results: []Result{}, Total: 0, Query: q.Text}
	}
	return Response{Results: nonNil(results), Total: total, Query: q.Text}
}

// IndexIdea indexes an idea (fire-and-forget to Meilisearch).
func (s *Service) IndexIdea(record IdeaRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexIdea(record); err != nil {
			log.Printf("search: index idea %d: %v", record.ID, err)
		}
	}()
}

// Reindex bulk-indexes the whole collection (fire-and-forget).
func (s *Service) Reindex(records []IdeaRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexIdeas(records); err != nil {
			log.Printf("search: reindex %d ideas: %v", len(records), err)
		}
	}()
}

func nonNil(results []Result) []Result {
	if results == nil {
		return []Result{}
	}
	return results
}
