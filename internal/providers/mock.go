package providers

import (
	"context"
	"strings"
)

// MockProvider returns deterministic, schema-shaped JSON for each operation.
// The analysis payload is wrapped in markdown fences on purpose, mirroring
// models that ignore the "JSON only" instruction; downstream decoding must
// cope with both forms.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	_ = ctx
	info := ProviderInfo{Name: "mock", Model: "mock-llm-v1", Key: "mock"}
	op := strings.ToLower(req.Operation)
	switch {
	case strings.Contains(op, "plagiarism"):
		return GenerateResponse{Text: `{
  "plagiarism": {
    "score": 12,
    "matchedSources": [
      {"source": "Wikipedia", "overlapSnippet": "a commonly phrased definition", "similarity": 0.31}
    ],
    "reasoning": "Mostly original phrasing with one generic overlap."
  },
  "aiDetection": {"isAI": false, "confidence": 0.74, "comment": "Varied sentence rhythm suggests human authorship."},
  "wordCount": 0
}`}, info, nil
	case strings.Contains(op, "chat"), strings.Contains(op, "ask"):
		return GenerateResponse{Text: `{
  "answer": "Deterministic answer based on the provided document context.",
  "confidence": 0.8,
  "sources": [
    {"page": 1, "text": "Supporting passage from page one."},
    {"page": 4, "text": "Secondary passage from page four."}
  ]
}`}, info, nil
	default:
		return GenerateResponse{Text: "```json\n" + `{
  "id": "mock-analysis",
  "summary": "Mock summary of the document.",
  "keyInsights": ["First deterministic insight.", "Second deterministic insight."],
  "citations": [
    {"text": "A representative excerpt.", "page": 1, "confidence": 0.92},
    {"text": "A second excerpt.", "page": 2, "confidence": 0.85}
  ],
  "topics": ["methodology", "results"],
  "analysisDate": "2024-01-02T03:04:05Z"
}` + "\n```"}, info, nil
	}
}
