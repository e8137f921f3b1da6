package citations

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"researchmate/internal/models"
)

var ErrNotFound = errors.New("citation not found")

const (
	FilterAll       = "all"
	FilterFavorites = "favorites"

	// CategoryAnalysis tags citations ingested from an analysis result.
	CategoryAnalysis = "analysis"
)

// Store holds every citation ingested during the session, in insertion
// order. Ingest is append-only: repeated analysis of the same document
// produces parallel rows distinguished only by id and dateAdded.
type Store struct {
	mu    sync.RWMutex
	items []models.Citation
	index map[string]int
}

func NewStore() *Store {
	return &Store{index: make(map[string]int)}
}

// FromAnalysis expands an analysis result's citations into store records.
// IDs derive from the owning analysis id plus position.
func FromAnalysis(res models.AnalysisResult) []models.Citation {
	out := make([]models.Citation, 0, len(res.Citations))
	for i, c := range res.Citations {
		out = append(out, models.Citation{
			ID:           fmt.Sprintf("%s-%d", res.ID, i),
			Text:         c.Text,
			Page:         c.Page,
			Confidence:   c.Confidence,
			DocumentName: res.DocumentName,
			DocumentID:   res.ID,
			Category:     CategoryAnalysis,
			DateAdded:    res.AnalysisDate,
		})
	}
	return out
}

func (s *Store) Ingest(batch []models.Citation) {
	if len(batch) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range batch {
		s.index[c.ID] = len(s.items)
		s.items = append(s.items, c)
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// All returns a copy in insertion order, oldest first.
func (s *Store) All() []models.Citation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Citation, len(s.items))
	copy(out, s.items)
	return out
}

// Query is a read-only projection: case-insensitive substring search over
// citation text and document name, combined with a category filter of
// "all", "favorites", or a literal category. Stored order is preserved.
func (s *Store) Query(term, filter string) []models.Citation {
	term = strings.ToLower(strings.TrimSpace(term))
	filter = strings.TrimSpace(filter)
	if filter == "" {
		filter = FilterAll
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Citation, 0, len(s.items))
	for _, c := range s.items {
		if term != "" &&
			!strings.Contains(strings.ToLower(c.Text), term) &&
			!strings.Contains(strings.ToLower(c.DocumentName), term) {
			continue
		}
		switch filter {
		case FilterAll:
		case FilterFavorites:
			if !c.IsFavorite {
				continue
			}
		default:
			if c.Category != filter {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

func (s *Store) Search(term string) []models.Citation {
	return s.Query(term, FilterAll)
}

func (s *Store) Filter(filter string) []models.Citation {
	return s.Query("", filter)
}

// ToggleFavorite flips the session-local favorite flag and returns the new
// value.
func (s *Store) ToggleFavorite(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.items[i].IsFavorite = !s.items[i].IsFavorite
	return s.items[i].IsFavorite, nil
}

// Categories lists distinct non-empty categories in first-appearance order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]struct{}{}
	out := make([]string, 0, 4)
	for _, c := range s.items {
		if c.Category == "" {
			continue
		}
		if _, ok := seen[c.Category]; ok {
			continue
		}
		seen[c.Category] = struct{}{}
		out = append(out, c.Category)
	}
	return out
}
