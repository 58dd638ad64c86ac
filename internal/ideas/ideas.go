// Package ideas owns the submitted idea collection.
package ideas

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"connectideas/api/internal/kv"
)

// Status is an idea's review state. Any status can be reassigned to any
// other; there is no terminal state.
type Status string

const (
	StatusPending     Status = "Pending Review"
	StatusShortlisted Status = "Shortlisted"
	StatusFunded      Status = "Funded"
)

// ValidStatus reports whether raw is one of the three review states.
func ValidStatus(raw string) bool {
	switch Status(raw) {
	case StatusPending, StatusShortlisted, StatusFunded:
		return true
	default:
		return false
	}
}

// Idea is one submitted proposal. All fields except Status are immutable
// after creation.
type Idea struct {
	ID          int64     `json:"id"`
	OwnerName   string    `json:"ownerName"`
	OwnerEmail  string    `json:"ownerEmail"`
	University  string    `json:"university"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	ImageData   *string   `json:"imageData"`
}

// Stats are the dashboard aggregate counts.
type Stats struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Shortlisted int `json:"shortlisted"`
	Funded      int `json:"funded"`
}

// CountByStatus computes the dashboard counts over a collection.
func CountByStatus(collection []Idea) Stats {
	stats := Stats{Total: len(collection)}
	for _, idea := range collection {
		switch idea.Status {
		case StatusShortlisted:
			stats.Shortlisted++
		case StatusFunded:
			stats.Funded++
		default:
			stats.Pending++
		}
	}
	return stats
}

// Recent returns a copy of the collection sorted descending by creation
// time, truncated to n entries.
func Recent(collection []Idea, n int) []Idea {
	sorted := make([]Idea, len(collection))
	copy(sorted, collection)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Repository reads and writes the idea collection through the kv store.
// Every mutation is a full read-modify-write of the collection, so the
// repository serializes writers with a mutex. Collection order is
// insertion order.
type Repository struct {
	store kv.Store
	mu    sync.Mutex
}

func NewRepository(store kv.Store) *Repository {
	return &Repository{store: store}
}

// GetAll deserializes the stored collection. Absent or malformed data is
// an empty-state signal, not an error.
func (r *Repository) GetAll(ctx context.Context) ([]Idea, error) {
	raw, found, err := r.store.Get(ctx, kv.KeyIdeas)
	if err != nil {
		return nil, err
	}
	if !found {
		return []Idea{}, nil
	}
	var collection []Idea
	if err := json.Unmarshal([]byte(raw), &collection); err != nil {
		return []Idea{}, nil
	}
	if collection == nil {
		collection = []Idea{}
	}
	return collection, nil
}

// SaveAll serializes and overwrites the stored collection in full.
func (r *Repository) SaveAll(ctx context.Context, collection []Idea) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveLocked(ctx, collection)
}

func (r *Repository) saveLocked(ctx context.Context, collection []Idea) error {
	if collection == nil {
		collection = []Idea{}
	}
	payload, err := json.Marshal(collection)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, kv.KeyIdeas, string(payload))
}

// Append stores a new idea at the end of the collection. A zero ID is
// assigned from the creation timestamp in unix millis, bumped past any
// existing ID on collision; a zero Status defaults to Pending Review.
// Returns the idea as stored.
func (r *Repository) Append(ctx context.Context, idea Idea) (Idea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	collection, err := r.GetAll(ctx)
	if err != nil {
		return Idea{}, err
	}

	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = time.Now().UTC()
	}
	if idea.Status == "" {
		idea.Status = StatusPending
	}
	if idea.ID == 0 {
		idea.ID = idea.CreatedAt.UnixMilli()
	}
	for _, existing := range collection {
		if existing.ID >= idea.ID {
			idea.ID = existing.ID + 1
		}
	}

	collection = append(collection, idea)
	if err := r.saveLocked(ctx, collection); err != nil {
		return Idea{}, err
	}
	return idea, nil
}

// UpdateStatus replaces the status of the idea with the matching id and
// persists the full collection. Reports found=false when no idea matches;
// the collection is left untouched in that case.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	collection, err := r.GetAll(ctx)
	if err != nil {
		return false, err
	}

	for i := range collection {
		if collection[i].ID == id {
			collection[i].Status = status
			if err := r.saveLocked(ctx, collection); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}
