package chat

import (
	"context"
	"fmt"
	"log"
	"strings"

	"researchmate/internal/genjson"
	"researchmate/internal/models"
	"researchmate/internal/providers"
	"researchmate/internal/util"
)

// Service answers questions about an analyzed document. It is stateless;
// question counting lives in the session.
type Service struct {
	gen providers.Generator
}

func NewService(gen providers.Generator) *Service {
	return &Service{gen: gen}
}

func askPrompt(question, documentID, docContext string) string {
	if strings.TrimSpace(docContext) == "" {
		docContext = "No additional context provided"
	}
	return fmt.Sprintf(`You are answering questions about a research document.

Question: %s
Document ID: %s
Context: %s

Please provide:
1. A comprehensive answer to the question
2. A confidence score (0-1)
3. 2 relevant source citations with page numbers

Format your response as JSON:
{
  "answer": "detailed answer string",
  "confidence": number_between_0_and_1,
  "sources": [
    {"page": number, "text": "relevant citation text"}
  ]
}`, question, documentID, docContext)
}

type answerWire struct {
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
	Sources    []struct {
		Page int    `json:"page"`
		Text string `json:"text"`
	} `json:"sources"`
}

// Ask sends one question and returns the grounded answer. An answer with no
// text is treated the same as undecodable output.
func (s *Service) Ask(ctx context.Context, question, documentID, docContext string) (models.ChatAnswer, error) {
	resp, info, err := s.gen.Generate(ctx, providers.GenerateRequest{
		Operation: "chat_answer",
		Prompt:    askPrompt(question, documentID, docContext),
		Context:   []string{docContext},
	})
	if err != nil {
		return models.ChatAnswer{}, fmt.Errorf("chat generation failed: %w", err)
	}

	var wire answerWire
	if err := genjson.Decode(resp.Text, &wire); err != nil {
		log.Printf("chat: undecodable output from %s: %s", info.Name, util.DisplaySnippet(resp.Text, 200))
		return models.ChatAnswer{}, err
	}
	answer := util.SanitizeText(wire.Answer)
	if answer == "" {
		return models.ChatAnswer{}, fmt.Errorf("%w: empty answer", genjson.ErrInvalidResponse)
	}

	out := models.ChatAnswer{Answer: answer, Confidence: clamp01(wire.Confidence)}
	for _, src := range wire.Sources {
		text := util.SanitizeText(src.Text)
		if text == "" {
			continue
		}
		page := src.Page
		if page < 1 {
			page = 1
		}
		out.Sources = append(out.Sources, models.ChatSource{Page: page, Text: text})
	}
	return out, nil
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
