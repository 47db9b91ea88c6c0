// Package canvas is the primitive drawing layer under the quote
// renderer. It exposes absolute-coordinate text, rectangle and image
// operations plus text measurement, and materializes the document as a
// byte buffer exactly once via Finish. It knows nothing about quotes.
package canvas

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Page geometry: A4 portrait in points, fixed margin on all sides.
const (
	Margin = 50.0

	defaultFont = "Helvetica"
	defaultSize = 10.0
)

// Text alignment codes, as accepted by TextOptions.Align.
const (
	AlignLeft   = "L"
	AlignCenter = "C"
	AlignRight  = "R"
)

// RGB is a 24-bit color. The zero value is black.
type RGB struct {
	R, G, B int
}

// TextOptions controls a single DrawText or MeasureTextHeight call.
// Zero values fall back to Helvetica 10pt, left aligned, black, with a
// line height derived from the font size.
type TextOptions struct {
	Width      float64
	Align      string
	Font       string
	Style      string // "", "B", "I", "BI"
	Size       float64
	Color      RGB
	LineHeight float64

	// Continued keeps the cursor on the same logical line so an
	// adjacent run can be stitched next to this one.
	Continued bool
}

func (o TextOptions) withDefaults() TextOptions {
	if o.Font == "" {
		o.Font = defaultFont
	}
	if o.Size <= 0 {
		o.Size = defaultSize
	}
	if o.LineHeight <= 0 {
		o.LineHeight = o.Size * 1.35
	}
	if o.Align == "" {
		o.Align = AlignLeft
	}
	return o
}

// RectOptions controls DrawRect. Nil Fill or Stroke disables that
// aspect; both nil draws nothing.
type RectOptions struct {
	Fill   *RGB
	Stroke *RGB
}

// Image is a decoded raster ready for placement. Name must be unique
// per distinct image within a document; Format is an fpdf image type
// ("PNG", "JPG", "JPEG", "GIF").
type Image struct {
	Name   string
	Format string
	Data   []byte
}

// Canvas is the drawing surface consumed by the layout engine. A
// canvas belongs to exactly one render call and is not safe for
// concurrent use; concurrent renders each get their own instance.
type Canvas interface {
	DrawText(text string, x, y float64, opt TextOptions)
	DrawRect(x, y, w, h float64, opt RectOptions)
	DrawImage(img Image, x, y, w, h float64)
	MeasureTextHeight(text string, width float64, opt TextOptions) float64
	NewPage()
	PageCount() int
	PageSize() (w, h float64)
	Finish() ([]byte, error)
}

// Metadata is embedded in the document header fields.
type Metadata struct {
	Title     string
	Author    string
	CreatedAt time.Time
}

// PDF implements Canvas on top of go-pdf/fpdf.
type PDF struct {
	doc        *fpdf.Fpdf
	registered map[string]bool
}

// NewPDF opens an A4 portrait document with the fixed margin and the
// first page already added. Automatic page breaks are disabled: page
// transitions are owned by the flow controller, not the canvas.
func NewPDF(meta Metadata) *PDF {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetTitle(meta.Title, true)
	doc.SetAuthor(meta.Author, true)
	doc.SetCreationDate(meta.CreatedAt)
	doc.SetModificationDate(meta.CreatedAt)
	// Sorted catalog emission keeps the byte buffer reproducible for a
	// fixed clock; without it fpdf writes font objects in map order.
	doc.SetCatalogSort(true)
	doc.SetMargins(Margin, Margin, Margin)
	doc.SetAutoPageBreak(false, Margin)
	doc.AddPage()
	return &PDF{doc: doc, registered: make(map[string]bool)}
}

// DrawText draws a wrapped text block with its top-left corner at
// (x, y). When opt.Width is zero the block extends to the right
// margin. Continued runs are drawn as a single non-wrapping cell so
// the next run can continue on the same line.
func (p *PDF) DrawText(text string, x, y float64, opt TextOptions) {
	o := opt.withDefaults()
	p.doc.SetFont(o.Font, o.Style, o.Size)
	p.doc.SetTextColor(o.Color.R, o.Color.G, o.Color.B)

	w := o.Width
	if w <= 0 {
		pw, _ := p.doc.GetPageSize()
		w = pw - Margin - x
	}

	p.doc.SetXY(x, y)
	if o.Continued {
		p.doc.CellFormat(w, o.LineHeight, text, "", 0, o.Align, false, 0, "")
		return
	}
	p.doc.MultiCell(w, o.LineHeight, text, "", o.Align, false)
}

// DrawRect draws a filled and/or stroked rectangle.
func (p *PDF) DrawRect(x, y, w, h float64, opt RectOptions) {
	style := ""
	if opt.Fill != nil {
		p.doc.SetFillColor(opt.Fill.R, opt.Fill.G, opt.Fill.B)
		style += "F"
	}
	if opt.Stroke != nil {
		p.doc.SetDrawColor(opt.Stroke.R, opt.Stroke.G, opt.Stroke.B)
		style += "D"
	}
	if style == "" {
		return
	}
	p.doc.Rect(x, y, w, h, style)
}

// DrawImage places a registered raster at (x, y). A zero height keeps
// the image's aspect ratio.
func (p *PDF) DrawImage(img Image, x, y, w, h float64) {
	opts := fpdf.ImageOptions{ImageType: img.Format}
	if !p.registered[img.Name] {
		p.doc.RegisterImageOptionsReader(img.Name, opts, bytes.NewReader(img.Data))
		p.registered[img.Name] = true
	}
	p.doc.ImageOptions(img.Name, x, y, w, h, false, opts, 0, "")
}

// MeasureTextHeight returns the height the text block will occupy when
// wrapped at the given width. Layout queries this before drawing
// whenever a block's height depends on its wrapped line count.
func (p *PDF) MeasureTextHeight(text string, width float64, opt TextOptions) float64 {
	if text == "" {
		return 0
	}
	o := opt.withDefaults()
	p.doc.SetFont(o.Font, o.Style, o.Size)
	lines := p.doc.SplitText(text, width)
	return float64(len(lines)) * o.LineHeight
}

// NewPage starts a fresh page and moves the cursor to the top margin.
func (p *PDF) NewPage() {
	p.doc.AddPage()
}

// PageCount reports the number of pages emitted so far.
func (p *PDF) PageCount() int {
	return p.doc.PageCount()
}

// PageSize returns the page dimensions in points.
func (p *PDF) PageSize() (float64, float64) {
	return p.doc.GetPageSize()
}

// Finish closes the document and returns the full byte buffer. It must
// be called exactly once; the buffer never materializes before this
// point.
func (p *PDF) Finish() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write document stream: %w", err)
	}
	return buf.Bytes(), nil
}
