package analysis

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"researchmate/internal/genjson"
	"researchmate/internal/models"
	"researchmate/internal/providers"
	"researchmate/internal/util"
)

// Service is the analysis result cache: it requests analyses from the
// generation backend and keeps the most recent result per document.
// Re-analysis replaces the cached entry wholesale; there is no merging.
type Service struct {
	gen providers.Generator

	mu      sync.Mutex
	current map[string]models.AnalysisResult
}

func NewService(gen providers.Generator) *Service {
	return &Service{gen: gen, current: make(map[string]models.AnalysisResult)}
}

type analysisWire struct {
	ID           string `json:"id"`
	DocumentName string `json:"documentName"`
	Summary      string `json:"summary"`
	KeyInsights  []string `json:"keyInsights"`
	Citations    []struct {
		Text       string  `json:"text"`
		Page       int     `json:"page"`
		Confidence float64 `json:"confidence"`
	} `json:"citations"`
	Topics       []string `json:"topics"`
	AnalysisDate string   `json:"analysisDate"`
}

// RequestAnalysis runs one analysis round-trip. The returned result always
// carries the requested documentName, a fresh server-assigned id and a valid
// timestamp, regardless of what the model emitted. On success the result
// becomes current for the document.
func (s *Service) RequestAnalysis(ctx context.Context, documentName, fileType string) (models.AnalysisResult, error) {
	prompt := analysisPrompt(documentName, fileType, time.Now().UTC())
	resp, info, err := s.gen.Generate(ctx, providers.GenerateRequest{Operation: "analyze_document", Prompt: prompt})
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("analysis generation failed: %w", err)
	}

	var wire analysisWire
	if err := genjson.Decode(resp.Text, &wire); err != nil {
		log.Printf("analysis: undecodable output from %s: %s", info.Name, util.DisplaySnippet(resp.Text, 200))
		return models.AnalysisResult{}, err
	}

	res := normalize(wire, documentName)

	s.mu.Lock()
	s.current[documentName] = res
	s.mu.Unlock()
	return res, nil
}

// Current returns the cached result for a document, if any.
func (s *Service) Current(documentName string) (models.AnalysisResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.current[documentName]
	return res, ok
}

// normalize turns raw model output into a trusted AnalysisResult. The id is
// always minted server-side so every re-analysis produces distinct citation
// ids downstream.
func normalize(wire analysisWire, documentName string) models.AnalysisResult {
	res := models.AnalysisResult{
		ID:           uuid.NewString(),
		DocumentName: documentName,
		Summary:      util.SanitizeText(wire.Summary),
		AnalysisDate: time.Now().UTC(),
	}
	if t, err := time.Parse(time.RFC3339, wire.AnalysisDate); err == nil {
		res.AnalysisDate = t.UTC()
	}
	for _, in := range wire.KeyInsights {
		if v := util.SanitizeText(in); v != "" {
			res.KeyInsights = append(res.KeyInsights, v)
		}
	}
	for _, c := range wire.Citations {
		text := util.SanitizeText(c.Text)
		if text == "" {
			continue
		}
		page := c.Page
		if page < 1 {
			page = 1
		}
		res.Citations = append(res.Citations, models.AnalysisCitation{
			Text:       text,
			Page:       page,
			Confidence: clamp01(c.Confidence),
		})
	}
	for _, topic := range wire.Topics {
		if v := util.SanitizeText(topic); v != "" {
			res.Topics = append(res.Topics, v)
		}
	}
	return res
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
