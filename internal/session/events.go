package session

import (
	"time"

	"researchmate/internal/models"
)

type EventType string

const (
	EventUpload    EventType = "upload"
	EventAnalysis  EventType = "analysis"
	EventCitations EventType = "citations"
	EventQuestion  EventType = "question"
)

// Event is one completed action in the session log. Dashboard stats are
// derived from the log, never stored authoritatively.
type Event struct {
	Type         EventType
	DocumentName string
	Citations    int
	Insights     int
	Topics       []string
	At           time.Time
}

const maxTopTopics = 5

// Recompute folds the full event log, in occurrence order, into dashboard
// counters. It is pure: calling it twice on the same log yields the same
// stats, and counters only ever grow as events append. Top topics are the
// first five distinct topic strings by first appearance, not by frequency.
func Recompute(events []Event) models.DashboardStats {
	stats := models.DashboardStats{
		RecentDocuments: []models.Document{},
		TopTopics:       []string{},
	}
	seenTopics := map[string]struct{}{}
	for _, ev := range events {
		switch ev.Type {
		case EventUpload:
			stats.DocumentsUploaded++
		case EventAnalysis:
			stats.InsightsExtracted += ev.Insights
			for _, topic := range ev.Topics {
				if _, ok := seenTopics[topic]; ok {
					continue
				}
				seenTopics[topic] = struct{}{}
				if len(stats.TopTopics) < maxTopTopics {
					stats.TopTopics = append(stats.TopTopics, topic)
				}
			}
		case EventCitations:
			stats.CitationsGenerated += ev.Citations
		case EventQuestion:
			stats.QuestionsAsked++
		}
	}
	return stats
}
