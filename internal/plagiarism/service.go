package plagiarism

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"researchmate/internal/genjson"
	"researchmate/internal/models"
	"researchmate/internal/providers"
	"researchmate/internal/util"
)

// ErrNoText rejects a check before any provider call is made. The message is
// surfaced verbatim to the client.
var ErrNoText = errors.New("No text provided for plagiarism check")

const maxMatchedSources = 10

// Service runs combined plagiarism and AI-writing checks over raw document
// text. This is the only flow that sends document content upstream.
type Service struct {
	gen providers.Generator
}

func NewService(gen providers.Generator) *Service {
	return &Service{gen: gen}
}

func checkPrompt(documentName, fileType, fileText string, now time.Time) string {
	return fmt.Sprintf(`You are a plagiarism + AI writing detector.

INPUT
- Document Name: %s
- File Type: %s
- Current Time: %s

DOCUMENT TEXT
---------------- BEGIN ----------------
%s
----------------- END -----------------

TASKS
1. Plagiarism Check:
   - plagiarism.score: integer 0-100 (higher = more copied/unoriginal)
   - plagiarism.matchedSources: up to 10 overlaps, each with {source, overlapSnippet, similarity 0-1}
   - plagiarism.reasoning: 1 short paragraph explanation
2. AI Writing Detection:
   - aiDetection.isAI: true/false (likely AI-generated?)
   - aiDetection.confidence: 0-1 number
   - aiDetection.comment: short explanation
3. Word Count:
   - wordCount: number of words in document

RULES
- Don't invent URLs. Use general names only (e.g., "Wikipedia", "Nature 2020").
- If uncertain about plagiarism, keep matchedSources empty and score low.
- Confidence must be numeric 0-1.
- Return ONLY valid JSON. No markdown fences.`, documentName, fileType, now.Format(time.RFC3339), fileText)
}

type reportWire struct {
	Plagiarism struct {
		Score          float64                `json:"score"`
		MatchedSources []models.MatchedSource `json:"matchedSources"`
		Reasoning      string                 `json:"reasoning"`
	} `json:"plagiarism"`
	AIDetection struct {
		IsAI       bool    `json:"isAI"`
		Confidence float64 `json:"confidence"`
		Comment    string  `json:"comment"`
	} `json:"aiDetection"`
	WordCount *int `json:"wordCount"`
}

// Check validates the input, runs one detection round-trip and normalizes the
// result. A missing or non-positive model word count falls back to a local
// count of the submitted text.
func (s *Service) Check(ctx context.Context, documentName, fileType, fileText string) (models.PlagiarismResult, error) {
	if strings.TrimSpace(fileText) == "" {
		return models.PlagiarismResult{}, ErrNoText
	}

	prompt := checkPrompt(documentName, fileType, fileText, time.Now().UTC())
	resp, info, err := s.gen.Generate(ctx, providers.GenerateRequest{Operation: "plagiarism_check", Prompt: prompt})
	if err != nil {
		return models.PlagiarismResult{}, fmt.Errorf("plagiarism generation failed: %w", err)
	}

	var wire reportWire
	if err := genjson.Decode(resp.Text, &wire); err != nil {
		log.Printf("plagiarism: undecodable output from %s: %s", info.Name, util.DisplaySnippet(resp.Text, 200))
		return models.PlagiarismResult{}, err
	}

	out := models.PlagiarismResult{
		Plagiarism: models.PlagiarismReport{
			Score:     clampScore(wire.Plagiarism.Score),
			Reasoning: util.SanitizeText(wire.Plagiarism.Reasoning),
		},
		AIDetection: models.AIDetection{
			IsAI:       wire.AIDetection.IsAI,
			Confidence: clamp01(wire.AIDetection.Confidence),
			Comment:    util.SanitizeText(wire.AIDetection.Comment),
		},
	}
	for _, src := range wire.Plagiarism.MatchedSources {
		if len(out.Plagiarism.MatchedSources) == maxMatchedSources {
			break
		}
		src.Source = util.SanitizeText(src.Source)
		src.OverlapSnippet = util.SanitizeText(src.OverlapSnippet)
		src.Similarity = clamp01(src.Similarity)
		out.Plagiarism.MatchedSources = append(out.Plagiarism.MatchedSources, src)
	}
	if wire.WordCount != nil && *wire.WordCount > 0 {
		out.WordCount = *wire.WordCount
	} else {
		out.WordCount = util.CountWords(fileText)
	}
	return out, nil
}

func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
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
