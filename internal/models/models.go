package models

import "time"

type DocumentStatus string

const (
	StatusUploading  DocumentStatus = "uploading"
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
	StatusError      DocumentStatus = "error"
)

// Document is a file registered in the current session. Name is unique within
// the session; nothing is persisted past process lifetime.
type Document struct {
	Name       string         `json:"name"`
	UploadDate time.Time      `json:"uploadDate"`
	Status     DocumentStatus `json:"status"`
}

// AnalysisCitation is a citation as it appears inside an analysis result,
// before it is assigned an identity in the citation store.
type AnalysisCitation struct {
	Text       string  `json:"text"`
	Page       int     `json:"page"`
	Confidence float64 `json:"confidence"`
}

type AnalysisResult struct {
	ID           string             `json:"id"`
	DocumentName string             `json:"documentName"`
	Summary      string             `json:"summary"`
	KeyInsights  []string           `json:"keyInsights"`
	Citations    []AnalysisCitation `json:"citations"`
	Topics       []string           `json:"topics"`
	AnalysisDate time.Time          `json:"analysisDate"`
}

// Citation is a stored, addressable citation record. Immutable after ingest
// except for the IsFavorite flag.
type Citation struct {
	ID           string    `json:"id"`
	Text         string    `json:"text"`
	Page         int       `json:"page"`
	Confidence   float64   `json:"confidence"`
	DocumentName string    `json:"documentName"`
	DocumentID   string    `json:"documentId"`
	Category     string    `json:"category,omitempty"`
	IsFavorite   bool      `json:"isFavorite"`
	DateAdded    time.Time `json:"dateAdded"`
}

type Activity struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

type DashboardStats struct {
	DocumentsUploaded  int        `json:"documentsUploaded"`
	CitationsGenerated int        `json:"citationsGenerated"`
	QuestionsAsked     int        `json:"questionsAsked"`
	InsightsExtracted  int        `json:"insightsExtracted"`
	RecentDocuments    []Document `json:"recentDocuments"`
	TopTopics          []string   `json:"topTopics"`
}

type MatchedSource struct {
	Source         string  `json:"source"`
	OverlapSnippet string  `json:"overlapSnippet"`
	Similarity     float64 `json:"similarity"`
}

type PlagiarismReport struct {
	Score          int             `json:"score"`
	MatchedSources []MatchedSource `json:"matchedSources"`
	Reasoning      string          `json:"reasoning"`
}

type AIDetection struct {
	IsAI       bool    `json:"isAI"`
	Confidence float64 `json:"confidence"`
	Comment    string  `json:"comment"`
}

// PlagiarismResult is ephemeral: held only for the response, never merged
// into session state.
type PlagiarismResult struct {
	Plagiarism  PlagiarismReport `json:"plagiarism"`
	AIDetection AIDetection      `json:"aiDetection"`
	WordCount   int              `json:"wordCount"`
}

type ChatSource struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

type ChatAnswer struct {
	Answer     string       `json:"answer"`
	Confidence float64      `json:"confidence"`
	Sources    []ChatSource `json:"sources"`
}
