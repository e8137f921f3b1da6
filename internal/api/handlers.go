package api

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"researchmate/internal/citations"
	"researchmate/internal/genjson"
	"researchmate/internal/plagiarism"
	"researchmate/internal/session"
)

const retryMsg = "AI analysis failed. Please try again."

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type analyzeRequest struct {
	DocumentName string `json:"documentName"`
	FileType     string `json:"fileType"`
}

// handleAnalyze is the full pipeline: register the document if needed, run
// the analysis, store the result and expand its citations into the store.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.DocumentName) == "" {
		respondFailure(w, http.StatusBadRequest, "documentName is required")
		return
	}

	s.session.SelectDocument(req.DocumentName)

	res, err := s.analysis.RequestAnalysis(r.Context(), req.DocumentName, req.FileType)
	if err != nil {
		s.session.MarkError(req.DocumentName)
		if errors.Is(err, genjson.ErrInvalidResponse) {
			respondFailure(w, http.StatusInternalServerError, "AI returned invalid JSON")
			return
		}
		log.Printf("api: analyze %s: %v", req.DocumentName, err)
		respondFailure(w, http.StatusInternalServerError, retryMsg)
		return
	}

	s.session.CompleteAnalysis(res)
	s.session.RecordCitations(citations.FromAnalysis(res))
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "analysis": res})
}

type chatRequest struct {
	Question   string `json:"question"`
	DocumentID string `json:"documentId"`
	Context    string `json:"context"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		respondFailure(w, http.StatusBadRequest, "question is required")
		return
	}

	ans, err := s.chat.Ask(r.Context(), req.Question, req.DocumentID, req.Context)
	if err != nil {
		if errors.Is(err, genjson.ErrInvalidResponse) {
			respondFailure(w, http.StatusInternalServerError, "AI returned invalid JSON")
			return
		}
		log.Printf("api: chat: %v", err)
		respondFailure(w, http.StatusInternalServerError, "Failed to generate response")
		return
	}

	s.session.RecordQuestion()
	respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"answer":     ans.Answer,
		"confidence": ans.Confidence,
		"sources":    ans.Sources,
	})
}

type plagiarismRequest struct {
	DocumentName string `json:"documentName"`
	FileType     string `json:"fileType"`
	FileText     string `json:"fileText"`
}

func (s *Server) handlePlagiarism(w http.ResponseWriter, r *http.Request) {
	var req plagiarismRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := s.plagiarism.Check(r.Context(), req.DocumentName, req.FileType, req.FileText)
	if err != nil {
		switch {
		case errors.Is(err, plagiarism.ErrNoText):
			respondFailure(w, http.StatusBadRequest, plagiarism.ErrNoText.Error())
		case errors.Is(err, genjson.ErrInvalidResponse):
			respondFailure(w, http.StatusInternalServerError, "AI returned invalid JSON")
		default:
			log.Printf("api: plagiarism %s: %v", req.DocumentName, err)
			respondFailure(w, http.StatusInternalServerError, retryMsg)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"plagiarism":  res.Plagiarism,
		"aiDetection": res.AIDetection,
		"wordCount":   res.WordCount,
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"stats":          s.session.Stats(),
		"recentActivity": s.session.RecentActivity(),
	})
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"documents": s.session.Documents(),
	})
}

type selectDocumentRequest struct {
	DocumentName string `json:"documentName"`
}

func (s *Server) handleSelectDocument(w http.ResponseWriter, r *http.Request) {
	var req selectDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.DocumentName) == "" {
		respondFailure(w, http.StatusBadRequest, "documentName is required")
		return
	}
	doc := s.session.SelectDocument(req.DocumentName)
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "document": doc})
}

type changeViewRequest struct {
	View string `json:"view"`
}

func (s *Server) handleChangeView(w http.ResponseWriter, r *http.Request) {
	var req changeViewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.session.ChangeView(session.View(req.View)); err != nil {
		respondFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "view": s.session.View()})
}

func (s *Server) handleListCitations(w http.ResponseWriter, r *http.Request) {
	store := s.session.Citations()
	items := store.Query(r.URL.Query().Get("search"), r.URL.Query().Get("filter"))
	respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"citations":  items,
		"total":      store.Len(),
		"categories": store.Categories(),
	})
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	fav, err := s.session.Citations().ToggleFavorite(id)
	if err != nil {
		respondFailure(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "id": id, "isFavorite": fav})
}

func (s *Server) handleExportCitations(w http.ResponseWriter, r *http.Request) {
	styleParam := r.URL.Query().Get("style")
	if styleParam == "" {
		styleParam = string(citations.StyleAPA)
	}
	style, err := citations.ParseStyle(styleParam)
	if err != nil {
		respondFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	items := s.session.Citations().Query(r.URL.Query().Get("search"), r.URL.Query().Get("filter"))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+citations.ExportFilename(style)+`"`)
	if err := citations.Export(w, items, style); err != nil {
		log.Printf("api: export citations: %v", err)
	}
}
