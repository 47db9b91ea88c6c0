// Package render assembles a quote document into its final PDF
// buffer. It owns the pagination flow: the main page always renders
// first, terms and signature sections each force a fresh page when
// present, and the buffer materializes exactly once at the end.
package render

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rickar/cal/v2"
	"go.uber.org/zap"

	"quotegen/internal/assets"
	"quotegen/internal/canvas"
	"quotegen/internal/layout"
	"quotegen/internal/money"
	"quotegen/internal/quote"
)

// state is the flow controller position. Transitions only move
// forward; no section renders twice and no page is emitted empty.
type state int

const (
	stateMain state = iota
	stateTerms
	stateSignature
	stateDone
)

// Options adjusts renderer behavior.
type Options struct {
	// PaginateRows opts in to row-level table pagination.
	PaginateRows bool

	// Calendar enables business-day alignment of the validity date.
	Calendar *cal.BusinessCalendar

	// Clock supplies the render timestamp embedded in the document
	// metadata. Defaults to time.Now; fix it for deterministic output.
	Clock func() time.Time
}

// RenderedDocument is the opaque output buffer plus its size and the
// number of pages that were emitted.
type RenderedDocument struct {
	Data  []byte
	Size  int
	Pages int
}

// RenderError wraps a canvas or stream failure. The render aborts and
// no partial buffer is returned.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed: %v", e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Renderer turns quote documents into PDF buffers. It holds no
// mutable per-document state: every Render call builds its own canvas
// and layout engine, so concurrent renders are independent.
type Renderer struct {
	store assets.Store
	log   *zap.Logger
	opts  Options
}

func New(store assets.Store, log *zap.Logger, opts Options) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Renderer{store: store, log: log, opts: opts}
}

// Render validates the document, computes its financial breakdown and
// drives the section flow to completion. It returns either a complete
// buffer or a typed error, never a truncated buffer.
func (r *Renderer) Render(ctx context.Context, doc *quote.Document) (*RenderedDocument, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	breakdown := money.Calculate(doc)

	trailID := uuid.New().String()
	start := time.Now()
	log := r.log.With(
		zap.String("trail_id", trailID),
		zap.String("quote_number", doc.Number),
	)

	cv := canvas.NewPDF(canvas.Metadata{
		Title:     "Quote " + doc.Number,
		Author:    doc.Company.Name,
		CreatedAt: r.opts.Clock(),
	})
	eng := layout.New(cv, assets.NewResolver(r.store, log), log, layout.Options{
		PaginateRows: r.opts.PaginateRows,
		Calendar:     r.opts.Calendar,
	})

	for st := stateMain; st != stateDone; {
		switch st {
		case stateMain:
			eng.Header(ctx, doc)
			eng.Title()
			eng.PartyBoxes(doc)
			bottom := eng.ItemTable(doc)
			eng.Summary(doc, breakdown, bottom)
		case stateTerms:
			cv.NewPage()
			eng.Terms(doc.Template)
		case stateSignature:
			cv.NewPage()
			eng.SignatureBlock(doc.Signature)
		}
		st = next(st, doc)
	}

	data, err := cv.Finish()
	if err != nil {
		return nil, &RenderError{Err: err}
	}

	out := &RenderedDocument{Data: data, Size: len(data), Pages: cv.PageCount()}
	log.Info("quote rendered",
		zap.Int("bytes", out.Size),
		zap.Int("pages", out.Pages),
		zap.Duration("duration", time.Since(start)),
	)
	return out, nil
}

// next advances the flow: MAIN -> TERMS only when the template carries
// terms text, then SIGNATURE only when a signature is present.
func next(from state, doc *quote.Document) state {
	switch from {
	case stateMain:
		if doc.Template.HasTerms() {
			return stateTerms
		}
		fallthrough
	case stateTerms:
		if doc.Signature != nil {
			return stateSignature
		}
		return stateDone
	default:
		return stateDone
	}
}
