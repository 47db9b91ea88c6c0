// Package server exposes the rendering engine over HTTP. It is a thin
// shell: bind the quote bundle, assign a number when absent, render,
// and stream the PDF back. Persistence and authorization live in
// external collaborators.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quotegen/internal/config"
	"quotegen/internal/ident"
	"quotegen/internal/mailer"
	"quotegen/internal/quote"
	"quotegen/internal/render"
)

type Server struct {
	cfg      *config.Config
	renderer *render.Renderer
	gen      *ident.Generator
	log      *zap.Logger
	engine   *gin.Engine
}

func New(cfg *config.Config, renderer *render.Renderer, gen *ident.Generator, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{cfg: cfg, renderer: renderer, gen: gen, log: log}

	engine := gin.New()
	engine.Use(requestID(), accessLog(log), gin.Recovery())
	engine.GET("/healthz", s.health)
	engine.POST("/v1/quotes/render", s.renderQuote)
	engine.POST("/v1/quotes/email", s.emailQuote)
	s.engine = engine
	return s
}

// Handler returns the HTTP handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run blocks serving on the configured address.
func (s *Server) Run() error {
	s.log.Info("listening", zap.String("addr", s.cfg.Server.Addr))
	return s.engine.Run(s.cfg.Server.Addr)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) renderQuote(c *gin.Context) {
	doc, out, ok := s.renderFromRequest(c, nil)
	if !ok {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pdfFilename(doc)))
	c.Data(http.StatusOK, "application/pdf", out.Data)
}

type emailRequest struct {
	Quote quote.Document `json:"quote"`
	To    string         `json:"to"`
}

func (s *Server) emailQuote(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	to := req.To
	if to == "" {
		to = s.cfg.Email.To
	}
	if to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no recipient configured"})
		return
	}

	doc, out, ok := s.renderFromRequest(c, &req.Quote)
	if !ok {
		return
	}

	subject := "Quote " + doc.Number
	body := fmt.Sprintf("Please find quote %s attached.<br>", doc.Number)
	att := mailer.Attachment{Filename: pdfFilename(doc), Data: out.Data}
	if err := mailer.Send(s.cfg, to, subject, body, att); err != nil {
		s.log.Error("email delivery failed", zap.String("quote_number", doc.Number), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "email delivery failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent", "quote_number": doc.Number})
}

// renderFromRequest binds the document (unless one is supplied),
// assigns a number when missing, and runs the render, translating the
// error taxonomy onto HTTP statuses.
func (s *Server) renderFromRequest(c *gin.Context, doc *quote.Document) (*quote.Document, *render.RenderedDocument, bool) {
	if doc == nil {
		doc = new(quote.Document)
		if err := c.ShouldBindJSON(doc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return nil, nil, false
		}
	}
	if doc.Number == "" && s.gen != nil {
		doc.Number = s.gen.QuoteNumber()
	}

	out, err := s.renderer.Render(c.Request.Context(), doc)
	if err != nil {
		var verr *quote.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Reason, "field": verr.Field})
			return nil, nil, false
		}
		s.log.Error("render failed", zap.String("quote_number", doc.Number), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return nil, nil, false
	}
	return doc, out, true
}

func pdfFilename(doc *quote.Document) string {
	return fmt.Sprintf("quote_%s.pdf", doc.Number)
}
