// Package api exposes the rendering engine over HTTP and WebSocket
package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/fakturly/billing-engine/internal/assemble"
	"github.com/fakturly/billing-engine/internal/assets"
	"github.com/fakturly/billing-engine/pkg/docmodel"
)

// renderTimeout bounds one render call end to end
const renderTimeout = 30 * time.Second

// Server is the API server
type Server struct {
	router    *gin.Engine
	assembler *assemble.Assembler
	upgrader  websocket.Upgrader
	hub       *eventHub
}

// NewServer creates a new API server around one assembler
func NewServer(assembler *assemble.Assembler) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.Default()
	router.Use(corsMiddleware())

	server := &Server{
		router:    router,
		assembler: assembler,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins
			},
		},
		hub: newEventHub(),
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	s.router.POST("/render", s.handleRender)
	s.router.POST("/payload", s.handlePayload)

	// WebSocket render lifecycle events
	s.router.GET("/ws", s.handleWebSocket)

	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}

// Run starts the HTTP server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// renderRequest is the body of POST /render and POST /payload
type renderRequest struct {
	Document docmodel.Document `json:"document"`
	Locale   string            `json:"locale"`
	LogoURL  string            `json:"logo_url"`
	FontURL  string            `json:"font_url"`
	BoldURL  string            `json:"font_bold_url"`
}

// handleRender renders one document and streams the PDF back
func (s *Server) handleRender(c *gin.Context) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	id := uuid.NewString()
	log.Printf("render %s: %s %s accepted", id, req.Document.Kind, req.Document.Number)
	s.hub.broadcast(Event{Type: EventRenderAccepted, RenderID: id, Document: req.Document.Number})

	ctx, cancel := context.WithTimeout(c.Request.Context(), renderTimeout)
	defer cancel()

	res, err := s.assembler.Render(ctx, &req.Document, assemble.Options{
		Locale: req.Locale,
		Assets: assets.Sources{
			LogoURL:     req.LogoURL,
			FontRegular: req.FontURL,
			FontBold:    req.BoldURL,
		},
	})
	if err != nil {
		status := 500
		var vErr *docmodel.ValidationError
		var aErr *assets.Error
		switch {
		case errors.As(err, &vErr):
			status = 422
		case errors.As(err, &aErr):
			status = 502
		}
		log.Printf("render %s: failed: %v", id, err)
		s.hub.broadcast(Event{Type: EventRenderFailed, RenderID: id, Document: req.Document.Number, Error: err.Error()})
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	log.Printf("render %s: %d page(s), %d bytes", id, res.Pages, len(res.PDF))
	s.hub.broadcast(Event{Type: EventRenderCompleted, RenderID: id, Document: req.Document.Number, Pages: res.Pages})

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	c.Data(200, "application/pdf", res.PDF)
}

// handlePayload returns the payment payload of a document without rendering
// pages, useful for verifying scanner compatibility.
func (s *Server) handlePayload(c *gin.Context) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	if err := docmodel.Validate(&req.Document); err != nil {
		c.JSON(422, gin.H{"error": err.Error()})
		return
	}

	payload, err := assemble.BuildPayload(&req.Document)
	if err != nil {
		c.JSON(422, gin.H{"error": err.Error()})
		return
	}

	c.String(200, payload)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
