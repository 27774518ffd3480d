// Package server exposes the translation manager over HTTP.
package server

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/ZaguanLabs/treelate"
)

// TextTranslator resolves a single text into a target language.
type TextTranslator interface {
	TranslateText(ctx context.Context, text, targetLang string) (string, error)
}

// Server wraps a translation manager behind a small JSON API.
type Server struct {
	translator TextTranslator
	engine     *gin.Engine
	logger     *log.Logger
}

type translateRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"targetLang"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates a Server serving translate and health endpoints.
func New(translator TextTranslator) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		translator: translator,
		logger:     log.New(os.Stderr, "[server] ", log.LstdFlags),
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestID())

	engine.POST("/translate", s.handleTranslate)
	engine.GET("/healthz", s.handleHealth)

	s.engine = engine
	return s
}

// SetLogger replaces the server logger.
func (s *Server) SetLogger(logger *log.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

func (s *Server) handleTranslate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Text == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "text is required"})
		return
	}
	if req.TargetLang == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "targetLang is required"})
		return
	}

	translated, err := s.translator.TranslateText(c.Request.Context(), req.Text, req.TargetLang)
	if err != nil {
		s.logger.Printf("translate %q -> %s failed (request %s): %v",
			truncate(req.Text, 40), req.TargetLang, GetRequestID(c), err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, translateResponse{TranslatedText: translated})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": treelate.Version,
	})
}

// Handler returns the underlying http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the HTTP server on addr and blocks until it exits.
func (s *Server) Run(addr string) error {
	s.logger.Printf("listening on %s", addr)
	return s.engine.Run(addr)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
