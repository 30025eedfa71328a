package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"personabot/pkg/artifact"
	"personabot/pkg/media"
	"personabot/pkg/persona"
	"personabot/pkg/pipeline"
)

const maxMultipartMemory = 32 << 20

// Analyzer runs the describe/summarize/respond pipeline.
type Analyzer interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

type Options struct {
	PreviewLength  int
	MaxUploadBytes int64
	AllowedOrigins []string
}

type Server struct {
	analyzer  Analyzer
	personas  *persona.Registry
	artifacts artifact.Store
	opts      Options
}

func New(analyzer Analyzer, personas *persona.Registry, artifacts artifact.Store, opts Options) *Server {
	if artifacts == nil {
		artifacts = artifact.Nop{}
	}
	if opts.PreviewLength <= 0 {
		opts.PreviewLength = 300
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return &Server{
		analyzer:  analyzer,
		personas:  personas,
		artifacts: artifacts,
		opts:      opts,
	}
}

// Handler returns the routed handler wrapped with CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /bots", s.handleBots)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /analyze_image_with_file", s.handleAnalyzeFile)
	mux.HandleFunc("POST /analyze_image_with_base64", s.handleAnalyzeBase64)

	return logRequests(cors(s.opts.AllowedOrigins, mux))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Message:       "Dynamic Image Personality Bot API is running!",
		Description:   "Upload an image and choose a bot personality to get a personalized response",
		AvailableBots: s.personas.IDs(),
	})
}

func (s *Server) handleBots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, BotsResponse{
		AvailableBots: s.personas.IDs(),
		TotalCount:    s.personas.Len(),
		Usage:         "Pass bot_id parameter when calling the analyze endpoints",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     "healthy",
		Message:    "API is running",
		BotsLoaded: s.personas.Len(),
	})
}

func (s *Server) handleAnalyzeFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, &requestError{
				status: http.StatusRequestEntityTooLarge,
				detail: "Image exceeds the upload size limit",
			})
			return
		}
		writeError(w, badRequest("Invalid multipart form: %v", err))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, badRequest("Image file is required"))
		return
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		writeError(w, badRequest("File must be an image"))
		return
	}

	botID, reqErr := s.resolveBot(r.FormValue("bot_id"))
	if reqErr != nil {
		writeError(w, reqErr)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, badRequest("Failed to read image: %v", err))
		return
	}
	if len(data) == 0 {
		writeError(w, badRequest("Image file is empty"))
		return
	}

	s.analyze(w, r, data, media.EncodeBase64(data), botID)
}

func (s *Server) handleAnalyzeBase64(w http.ResponseWriter, r *http.Request) {
	// base64 inflates payloads by 4/3, leave room for the JSON envelope
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes*4/3+4096)

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, &requestError{
				status: http.StatusRequestEntityTooLarge,
				detail: "Image exceeds the upload size limit",
			})
			return
		}
		writeError(w, badRequest("Invalid JSON body: %v", err))
		return
	}

	if req.ImageBase64 == "" {
		writeError(w, badRequest("Image base64 data is required"))
		return
	}

	botID, reqErr := s.resolveBot(req.BotID)
	if reqErr != nil {
		writeError(w, reqErr)
		return
	}

	data, err := media.DecodeBase64(req.ImageBase64)
	if err != nil || len(data) == 0 {
		writeError(w, badRequest("Invalid base64 image data"))
		return
	}

	s.analyze(w, r, data, media.EncodeBase64(data), botID)
}

// resolveBot applies the default and rejects ids the registry doesn't know.
// The registry itself would fall back silently; the HTTP contract is stricter.
func (s *Server) resolveBot(id string) (string, *requestError) {
	if id == "" {
		id = s.personas.DefaultID()
	}
	if !s.personas.Has(id) {
		return "", unknownBot(id, s.personas.IDs())
	}
	return id, nil
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request, data []byte, encoded, botID string) {
	ctx := r.Context()

	if ref, err := s.artifacts.Save(ctx, encoded); err != nil {
		log.Printf("Failed to save image artifact: %v", err)
	} else if ref != "" {
		log.Printf("Saved image artifact: %s", ref)
	}

	result, err := s.analyzer.Run(ctx, pipeline.Request{Image: data, PersonaID: botID})
	if err != nil {
		log.Printf("Error processing request for bot %s: %v", botID, err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Detail: "Error processing request: " + err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, BotResponse{
		ImageDescription:   result.Description,
		ImageSummary:       result.Summary,
		FinalResponse:      result.Reply,
		BotUsed:            result.PersonaUsed,
		ImageBase64Preview: media.Preview(encoded, s.opts.PreviewLength),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}
