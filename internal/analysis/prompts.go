package analysis

import (
	"fmt"
	"time"
)

// analysisPrompt asks for a complete AnalysisResult as bare JSON. Only the
// document name and type are sent: no content travels on this path, so the
// output is synthetic by design. The plagiarism flow is the one that ships
// real text.
func analysisPrompt(documentName, fileType string, now time.Time) string {
	return fmt.Sprintf(`You are analyzing a research document.

Document Name: %s
File Type: %s

Return ONLY valid JSON in this structure:
{
  "id": "unique-id",
  "documentName": "%s",
  "summary": "short summary of the document",
  "keyInsights": ["insight 1", "insight 2"],
  "citations": [
    { "text": "citation text", "page": 1, "confidence": 0.92 }
  ],
  "topics": ["topic1", "topic2"],
  "analysisDate": "%s"
}`, documentName, fileType, documentName, now.Format(time.RFC3339))
}
