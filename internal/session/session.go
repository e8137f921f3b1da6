package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"researchmate/internal/citations"
	"researchmate/internal/models"
)

type View string

const (
	ViewDashboard  View = "dashboard"
	ViewResearch   View = "research"
	ViewCitations  View = "citations"
	ViewPlagiarism View = "plagiarism"
)

var ErrUnknownView = errors.New("unknown view")

const maxRecentDocuments = 5

// Session owns all mutable state for one process lifetime: the document
// registry, current analysis per document, the citation store, the activity
// feed and the event log. Every mutation goes through a method under one
// mutex; reads return copies. Nothing survives process exit.
type Session struct {
	mu        sync.Mutex
	view      View
	documents []models.Document
	docIndex  map[string]int
	current   map[string]models.AnalysisResult
	store     *citations.Store
	activity  []models.Activity
	events    []Event
}

func New() *Session {
	return &Session{
		view:     ViewDashboard,
		docIndex: make(map[string]int),
		current:  make(map[string]models.AnalysisResult),
		store:    citations.NewStore(),
	}
}

// SelectDocument registers (or re-registers) a document in processing state
// and logs an upload event. Names are unique: selecting an existing name
// refreshes its entry rather than adding a second one, but each selection
// still counts toward documentsUploaded.
func (s *Session) SelectDocument(name string) models.Document {
	now := time.Now().UTC()
	doc := models.Document{Name: name, UploadDate: now, Status: models.StatusProcessing}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.docIndex[name]; ok {
		s.documents[i] = doc
	} else {
		s.docIndex[name] = len(s.documents)
		s.documents = append(s.documents, doc)
	}
	s.appendActivityLocked("upload", fmt.Sprintf("Uploaded %s", name), now)
	s.events = append(s.events, Event{Type: EventUpload, DocumentName: name, At: now})
	return doc
}

// Known reports whether a document name has been registered.
func (s *Session) Known(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docIndex[name]
	return ok
}

// CompleteAnalysis stores the result as current for its document, replacing
// any prior result wholesale (last writer wins), and marks the document
// completed.
func (s *Session) CompleteAnalysis(res models.AnalysisResult) {
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current[res.DocumentName] = res
	if i, ok := s.docIndex[res.DocumentName]; ok {
		s.documents[i].Status = models.StatusCompleted
	}
	s.appendActivityLocked("analysis", fmt.Sprintf("Analyzed %s", res.DocumentName), now)
	s.events = append(s.events, Event{
		Type:         EventAnalysis,
		DocumentName: res.DocumentName,
		Insights:     len(res.KeyInsights),
		Topics:       append([]string(nil), res.Topics...),
		At:           now,
	})
}

// MarkError flags a registered document whose analysis failed.
func (s *Session) MarkError(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.docIndex[name]; ok {
		s.documents[i].Status = models.StatusError
	}
}

// RecordCitations appends a batch to the citation store and logs the event.
func (s *Session) RecordCitations(batch []models.Citation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Ingest(batch)
	s.events = append(s.events, Event{Type: EventCitations, Citations: len(batch), At: time.Now().UTC()})
}

// RecordQuestion logs one answered question.
func (s *Session) RecordQuestion() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, Event{Type: EventQuestion, At: time.Now().UTC()})
}

// ChangeView is a pure UI-state transition; it touches no data.
func (s *Session) ChangeView(v View) error {
	switch v {
	case ViewDashboard, ViewResearch, ViewCitations, ViewPlagiarism:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownView, v)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
	return nil
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Stats derives dashboard counters from the event log and attaches the
// recent-documents slice.
func (s *Session) Stats() models.DashboardStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := Recompute(s.events)
	stats.RecentDocuments = s.recentDocumentsLocked()
	return stats
}

func (s *Session) recentDocumentsLocked() []models.Document {
	n := len(s.documents)
	limit := maxRecentDocuments
	if n < limit {
		limit = n
	}
	out := make([]models.Document, 0, limit)
	for i := n - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.documents[i])
	}
	return out
}

func (s *Session) Documents() []models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Document, len(s.documents))
	copy(out, s.documents)
	return out
}

// CurrentAnalysis returns the most recent analysis stored for a document.
func (s *Session) CurrentAnalysis(name string) (models.AnalysisResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.current[name]
	return res, ok
}

// RecentActivity returns the activity feed, newest first.
func (s *Session) RecentActivity() []models.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Activity, len(s.activity))
	copy(out, s.activity)
	return out
}

// Citations exposes the citation store for read/toggle operations.
func (s *Session) Citations() *citations.Store {
	return s.store
}

func (s *Session) appendActivityLocked(kind, desc string, at time.Time) {
	s.activity = append([]models.Activity{{Type: kind, Description: desc, Timestamp: at}}, s.activity...)
}
