package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"researchmate/internal/config"
	"researchmate/internal/models"
	"researchmate/internal/providers"
)

func newTestServer(t *testing.T, gen providers.Generator) *httptest.Server {
	t.Helper()
	if gen == nil {
		gen = providers.NewMockProvider()
	}
	srv := NewServer(config.Config{AllowedOrigins: []string{"*"}}, gen)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	decodeInto(t, resp, &body)
	require.Equal(t, "ok", body["status"])
}

func TestAnalyzeFeedsDashboardAndCitations(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/analyze", map[string]string{"documentName": "quantum.pdf", "fileType": "pdf"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var analyzeBody struct {
		Success  bool                  `json:"success"`
		Analysis models.AnalysisResult `json:"analysis"`
	}
	decodeInto(t, resp, &analyzeBody)
	require.True(t, analyzeBody.Success)
	require.Equal(t, "quantum.pdf", analyzeBody.Analysis.DocumentName)
	require.Len(t, analyzeBody.Analysis.Citations, 2)

	resp, err := http.Get(ts.URL + "/dashboard")
	require.NoError(t, err)
	var dashBody struct {
		Stats          models.DashboardStats `json:"stats"`
		RecentActivity []models.Activity     `json:"recentActivity"`
	}
	decodeInto(t, resp, &dashBody)
	require.Equal(t, 1, dashBody.Stats.DocumentsUploaded)
	require.Equal(t, 2, dashBody.Stats.CitationsGenerated)
	require.Equal(t, 2, dashBody.Stats.InsightsExtracted)
	require.Equal(t, []string{"methodology", "results"}, dashBody.Stats.TopTopics)
	require.Equal(t, "analysis", dashBody.RecentActivity[0].Type)

	resp, err = http.Get(ts.URL + "/citations")
	require.NoError(t, err)
	var citBody struct {
		Citations  []models.Citation `json:"citations"`
		Total      int               `json:"total"`
		Categories []string          `json:"categories"`
	}
	decodeInto(t, resp, &citBody)
	require.Equal(t, 2, citBody.Total)
	require.Equal(t, []string{"analysis"}, citBody.Categories)
	require.Equal(t, analyzeBody.Analysis.ID, citBody.Citations[0].DocumentID)
}

func TestReanalysisAppendsCitations(t *testing.T) {
	ts := newTestServer(t, nil)
	for i := 0; i < 2; i++ {
		resp := postJSON(t, ts.URL+"/analyze", map[string]string{"documentName": "a.pdf", "fileType": "pdf"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/documents")
	require.NoError(t, err)
	var docsBody struct {
		Documents []models.Document `json:"documents"`
	}
	decodeInto(t, resp, &docsBody)
	require.Len(t, docsBody.Documents, 1)
	require.Equal(t, models.StatusCompleted, docsBody.Documents[0].Status)

	resp, err = http.Get(ts.URL + "/citations")
	require.NoError(t, err)
	var citBody struct {
		Total int `json:"total"`
	}
	decodeInto(t, resp, &citBody)
	require.Equal(t, 4, citBody.Total)
}

type failingGenerator struct{ err error }

func (f failingGenerator) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, providers.ProviderInfo, error) {
	return providers.GenerateResponse{}, providers.ProviderInfo{Name: "fake"}, f.err
}

func TestAnalyzeFailureMarksDocumentError(t *testing.T) {
	ts := newTestServer(t, failingGenerator{err: errors.New("upstream down")})

	resp := postJSON(t, ts.URL+"/analyze", map[string]string{"documentName": "a.pdf"})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	decodeInto(t, resp, &body)
	require.False(t, body.Success)
	require.Equal(t, "AI analysis failed. Please try again.", body.Error)

	resp, err := http.Get(ts.URL + "/documents")
	require.NoError(t, err)
	var docsBody struct {
		Documents []models.Document `json:"documents"`
	}
	decodeInto(t, resp, &docsBody)
	require.Equal(t, models.StatusError, docsBody.Documents[0].Status)
}

type garbageGenerator struct{}

func (garbageGenerator) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, providers.ProviderInfo, error) {
	return providers.GenerateResponse{Text: "sorry, no JSON today"}, providers.ProviderInfo{Name: "fake"}, nil
}

func TestAnalyzeInvalidModelJSON(t *testing.T) {
	ts := newTestServer(t, garbageGenerator{})
	resp := postJSON(t, ts.URL+"/analyze", map[string]string{"documentName": "a.pdf"})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var body struct {
		Error string `json:"error"`
	}
	decodeInto(t, resp, &body)
	require.Equal(t, "AI returned invalid JSON", body.Error)
}

func TestAnalyzeRequiresDocumentName(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := postJSON(t, ts.URL+"/analyze", map[string]string{"documentName": "  "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestChatCountsQuestions(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := postJSON(t, ts.URL+"/chat", map[string]string{"question": "What is this about?", "documentId": "doc-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Success    bool                `json:"success"`
		Answer     string              `json:"answer"`
		Confidence float64             `json:"confidence"`
		Sources    []models.ChatSource `json:"sources"`
	}
	decodeInto(t, resp, &body)
	require.True(t, body.Success)
	require.NotEmpty(t, body.Answer)
	require.Len(t, body.Sources, 2)

	resp, err := http.Get(ts.URL + "/dashboard")
	require.NoError(t, err)
	var dashBody struct {
		Stats models.DashboardStats `json:"stats"`
	}
	decodeInto(t, resp, &dashBody)
	require.Equal(t, 1, dashBody.Stats.QuestionsAsked)
}

func TestChatRequiresQuestion(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := postJSON(t, ts.URL+"/chat", map[string]string{"question": ""})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestPlagiarismEmptyText(t *testing.T) {
	gen := &callCounter{inner: providers.NewMockProvider()}
	ts := newTestServer(t, gen)
	resp := postJSON(t, ts.URL+"/plagiarism", map[string]string{"documentName": "a.pdf", "fileType": "pdf", "fileText": "   "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	decodeInto(t, resp, &body)
	require.False(t, body.Success)
	require.Equal(t, "No text provided for plagiarism check", body.Error)
	require.Zero(t, gen.calls)
}

type callCounter struct {
	inner providers.Generator
	calls int
}

func (c *callCounter) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, providers.ProviderInfo, error) {
	c.calls++
	return c.inner.Generate(ctx, req)
}

func TestPlagiarismSuccess(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := postJSON(t, ts.URL+"/plagiarism", map[string]string{"documentName": "a.pdf", "fileType": "pdf", "fileText": "one two three"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Success     bool                    `json:"success"`
		Plagiarism  models.PlagiarismReport `json:"plagiarism"`
		AIDetection models.AIDetection      `json:"aiDetection"`
		WordCount   int                     `json:"wordCount"`
	}
	decodeInto(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, 12, body.Plagiarism.Score)
	require.Equal(t, 3, body.WordCount)
}

func TestSelectDocumentAndView(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/documents/select", map[string]string{"documentName": "draft.docx"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var selBody struct {
		Document models.Document `json:"document"`
	}
	decodeInto(t, resp, &selBody)
	require.Equal(t, models.StatusProcessing, selBody.Document.Status)

	resp = postJSON(t, ts.URL+"/view", map[string]string{"view": "citations"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/view", map[string]string{"view": "settings"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestFavoriteToggleRoundTrip(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := postJSON(t, ts.URL+"/analyze", map[string]string{"documentName": "a.pdf"})
	var analyzeBody struct {
		Analysis models.AnalysisResult `json:"analysis"`
	}
	decodeInto(t, resp, &analyzeBody)
	id := fmt.Sprintf("%s-0", analyzeBody.Analysis.ID)

	toggle := func() bool {
		resp := postJSON(t, ts.URL+"/citations/"+id+"/favorite", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body struct {
			IsFavorite bool `json:"isFavorite"`
		}
		decodeInto(t, resp, &body)
		return body.IsFavorite
	}
	require.True(t, toggle())
	require.False(t, toggle())

	resp = postJSON(t, ts.URL+"/citations/no-such-id/favorite", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCitationSearchAndFilter(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := postJSON(t, ts.URL+"/analyze", map[string]string{"documentName": "quantum.pdf"})
	resp.Body.Close()

	resp, err := http.Get(ts.URL + "/citations?search=representative")
	require.NoError(t, err)
	var body struct {
		Citations []models.Citation `json:"citations"`
		Total     int               `json:"total"`
	}
	decodeInto(t, resp, &body)
	require.Len(t, body.Citations, 1)
	// Total reflects the whole store, not the filtered view.
	require.Equal(t, 2, body.Total)

	resp, err = http.Get(ts.URL + "/citations?filter=favorites")
	require.NoError(t, err)
	var favBody struct {
		Citations []models.Citation `json:"citations"`
	}
	decodeInto(t, resp, &favBody)
	require.Empty(t, favBody.Citations)
}

func TestExportCitations(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := postJSON(t, ts.URL+"/analyze", map[string]string{"documentName": "quantum.pdf"})
	resp.Body.Close()

	resp, err := http.Get(ts.URL + "/citations/export?style=apa")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	require.Equal(t, `attachment; filename="citations-apa.txt"`, resp.Header.Get("Content-Disposition"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(data)
	require.Contains(t, text, "Author, A. (2024). quantum. p. 1.")
	require.Equal(t, 2, len(strings.Split(text, "\n\n")))

	resp, err = http.Get(ts.URL + "/citations/export?style=ieee")
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
