// Package layout composes canvas primitives into the visual sections
// of a quote document: branding header, title band, party boxes, the
// itemized table, the financial summary, and the terms and signature
// pages. All coordinates are absolute; the engine owns the vertical
// cursor and queries text measurement before drawing any block whose
// height depends on wrapping.
package layout

import (
	"context"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"quotegen/internal/assets"
	"quotegen/internal/canvas"
	"quotegen/internal/money"
	"quotegen/internal/quote"
)

// Geometry. The content area is A4 minus the canvas margin; column
// widths are fixed and non-configurable.
const (
	contentW = 495.0

	logoY = 45.0
	logoW = 90.0

	titleY = 140.0

	boxTop = 178.0
	boxH   = 96.0
	boxGap = 15.0
	boxPad = 10.0

	tableTop = 304.0
	cellPad  = 6.0
	rowGap   = 2.0
	minTextH = 12.0

	colName  = 150.0
	colDesc  = 145.0
	colQty   = 50.0
	colPrice = 75.0
	colTotal = 75.0

	summaryW    = 240.0
	summaryRowH = 16.0
)

var (
	inkColor    = canvas.RGB{R: 17, G: 24, B: 39}
	mutedColor  = canvas.RGB{R: 107, G: 114, B: 128}
	headerTint  = canvas.RGB{R: 229, G: 231, B: 235}
	rowTint     = canvas.RGB{R: 247, G: 248, B: 250}
	panelTint   = canvas.RGB{R: 249, G: 250, B: 251}
	borderColor = canvas.RGB{R: 209, G: 213, B: 219}
)

const dateFormat = "Jan 2, 2006"

// Options adjusts layout behavior per render call.
type Options struct {
	// PaginateRows starts a continuation page (repeating the table
	// header) when the next row would overflow the page. Off by
	// default: the table stays on one page and may overflow visually.
	PaginateRows bool

	// Calendar, when set, rolls the validity date forward to the next
	// workday if the 30th day lands on a weekend or holiday.
	Calendar *cal.BusinessCalendar
}

// Engine draws sections onto a canvas for a single document.
type Engine struct {
	cv   canvas.Canvas
	res  *assets.Resolver
	log  *zap.Logger
	opts Options
}

func New(cv canvas.Canvas, res *assets.Resolver, log *zap.Logger, opts Options) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{cv: cv, res: res, log: log, opts: opts}
}

// Header draws the branding block: the logo in its fixed top-left slot
// when it resolves, and the company name with contact lines stacked to
// the right of the slot. Missing contact fields are omitted outright.
func (e *Engine) Header(ctx context.Context, doc *quote.Document) {
	if img, ok := e.res.Logo(ctx, doc.Company.Logo); ok {
		e.cv.DrawImage(img, canvas.Margin, logoY, logoW, 0)
	}

	textX := canvas.Margin + logoW + 15
	e.cv.DrawText(doc.Company.Name, textX, logoY+2, canvas.TextOptions{
		Style: "B",
		Size:  16,
		Color: inkColor,
	})

	y := logoY + 26.0
	for _, line := range doc.Company.ContactLines() {
		e.cv.DrawText(line, textX, y, canvas.TextOptions{
			Size:  9,
			Color: mutedColor,
		})
		y += 12
	}
}

// Title draws the centered heading band.
func (e *Engine) Title() {
	e.cv.DrawText("QUOTE", canvas.Margin, titleY, canvas.TextOptions{
		Width: contentW,
		Align: canvas.AlignCenter,
		Style: "B",
		Size:  22,
		Color: inkColor,
	})
}

// PartyBoxes draws the side-by-side "quote to" and "quote details"
// boxes. Box height is fixed; overlong content is truncated by the
// wrap width rather than growing the box.
func (e *Engine) PartyBoxes(doc *quote.Document) {
	w := (contentW - boxGap) / 2
	leftX := canvas.Margin
	rightX := canvas.Margin + w + boxGap

	e.panel(leftX, boxTop, w, boxH, "QUOTE TO")
	y := boxTop + 28.0
	for _, line := range doc.Client.Lines() {
		e.cv.DrawText(line, leftX+boxPad, y, canvas.TextOptions{
			Width: w - 2*boxPad,
			Size:  9,
			Color: inkColor,
		})
		y += 13
	}

	e.panel(rightX, boxTop, w, boxH, "QUOTE DETAILS")
	y = boxTop + 28
	e.detailRow(rightX, y, w, "Quote #", doc.Number)
	y += 16
	e.detailRow(rightX, y, w, "Date", doc.CreatedAt.Format(dateFormat))
	y += 16
	e.detailRow(rightX, y, w, "Valid Until", e.validUntil(doc).Format(dateFormat))
}

func (e *Engine) panel(x, y, w, h float64, label string) {
	e.cv.DrawRect(x, y, w, h, canvas.RectOptions{Fill: &panelTint, Stroke: &borderColor})
	e.cv.DrawText(label, x+boxPad, y+boxPad, canvas.TextOptions{
		Style: "B",
		Size:  8,
		Color: mutedColor,
	})
}

// detailRow stitches a bold label and a right-aligned value on one
// logical line.
func (e *Engine) detailRow(x, y, w float64, label, value string) {
	e.cv.DrawText(label, x+boxPad, y, canvas.TextOptions{
		Width:     70,
		Style:     "B",
		Size:      9,
		Color:     inkColor,
		Continued: true,
	})
	e.cv.DrawText(value, x+boxPad+70, y, canvas.TextOptions{
		Width:     w - 2*boxPad - 70,
		Align:     canvas.AlignRight,
		Size:      9,
		Color:     inkColor,
		Continued: true,
	})
}

// validUntil is creation plus 30 days, optionally rolled forward to
// the next workday.
func (e *Engine) validUntil(doc *quote.Document) time.Time {
	v := doc.ValidUntil()
	if e.opts.Calendar != nil {
		for !e.opts.Calendar.IsWorkday(v) {
			v = v.AddDate(0, 0, 1)
		}
	}
	return v
}

// ItemTable draws the itemized table starting at the fixed table top
// and returns the vertical cursor after the last row. Row height is
// the larger of the measured name and description heights; rows keep
// their given order and alternate a background tint on even indexes.
func (e *Engine) ItemTable(doc *quote.Document) float64 {
	_, pageH := e.cv.PageSize()
	maxY := pageH - canvas.Margin

	y := e.tableHeader(tableTop)
	cellOpt := canvas.TextOptions{Size: 9, LineHeight: minTextH, Color: inkColor}

	for i, item := range doc.Items {
		nameText := item.Name
		if item.Variation != "" {
			nameText += "\n" + item.Variation
		}

		nameH := e.cv.MeasureTextHeight(nameText, colName-2*cellPad, cellOpt)
		descH := e.cv.MeasureTextHeight(item.Description, colDesc-2*cellPad, cellOpt)
		textH := max(max(nameH, descH), minTextH)
		rowH := textH + 2*cellPad

		if e.opts.PaginateRows && y+rowH > maxY {
			e.cv.NewPage()
			y = e.tableHeader(canvas.Margin)
		}

		if i%2 == 0 {
			e.cv.DrawRect(canvas.Margin, y, contentW, rowH, canvas.RectOptions{Fill: &rowTint})
		}

		x := canvas.Margin
		e.cv.DrawText(nameText, x+cellPad, y+cellPad, withWidth(cellOpt, colName-2*cellPad))
		x += colName
		e.cv.DrawText(item.Description, x+cellPad, y+cellPad, withWidth(cellOpt, colDesc-2*cellPad))
		x += colDesc
		e.cv.DrawText(quantityText(item), x+cellPad, y+cellPad, alignRight(cellOpt, colQty-2*cellPad))
		x += colQty
		e.cv.DrawText(amount(item.UnitPrice), x+cellPad, y+cellPad, alignRight(cellOpt, colPrice-2*cellPad))
		x += colPrice
		e.cv.DrawText(amount(item.Total()), x+cellPad, y+cellPad, alignRight(cellOpt, colTotal-2*cellPad))

		y += rowH + rowGap
	}
	return y
}

// tableHeader draws the tinted header row at the given y and returns
// the cursor below it.
func (e *Engine) tableHeader(y float64) float64 {
	const headerH = 22.0
	e.cv.DrawRect(canvas.Margin, y, contentW, headerH, canvas.RectOptions{Fill: &headerTint})

	opt := canvas.TextOptions{Style: "B", Size: 8, LineHeight: minTextH, Color: inkColor}
	x := canvas.Margin
	e.cv.DrawText("ITEM", x+cellPad, y+cellPad, withWidth(opt, colName-2*cellPad))
	x += colName
	e.cv.DrawText("DESCRIPTION", x+cellPad, y+cellPad, withWidth(opt, colDesc-2*cellPad))
	x += colDesc
	e.cv.DrawText("QTY", x+cellPad, y+cellPad, alignRight(opt, colQty-2*cellPad))
	x += colQty
	e.cv.DrawText("UNIT PRICE", x+cellPad, y+cellPad, alignRight(opt, colPrice-2*cellPad))
	x += colPrice
	e.cv.DrawText("TOTAL", x+cellPad, y+cellPad, alignRight(opt, colTotal-2*cellPad))

	return y + headerH + rowGap
}

// Summary draws the financial summary box below the table. Optional
// lines (discount, tax, down payment note) contribute vertical space
// only when present.
func (e *Engine) Summary(doc *quote.Document, b money.Breakdown, tableBottom float64) {
	type row struct {
		label  string
		value  string
		strong bool
	}

	rows := []row{{label: "Subtotal", value: amount(b.Subtotal)}}
	if doc.Discount != nil && b.Discount.IsPositive() {
		rows = append(rows, row{label: discountLabel(doc.Discount), value: "-" + amount(b.Discount)})
	}
	if doc.Tax != nil {
		rows = append(rows, row{label: "Tax (" + money.FormatPercent(doc.Tax.Rate) + ")", value: amount(b.Tax)})
	}
	rows = append(rows, row{label: "Total", value: amount(b.Total), strong: true})
	if doc.DownPayment != nil {
		rows = append(rows,
			row{label: downPaymentLabel(doc.DownPayment), value: amount(b.DownPayment)},
			row{label: "Remaining Balance", value: amount(b.Remaining), strong: true},
		)
	}

	x := canvas.Margin + contentW - summaryW
	top := tableBottom + 14
	h := float64(len(rows))*summaryRowH + 2*boxPad
	e.cv.DrawRect(x, top, summaryW, h, canvas.RectOptions{Fill: &panelTint, Stroke: &borderColor})

	y := top + boxPad
	for _, r := range rows {
		style := ""
		if r.strong {
			style = "B"
		}
		e.cv.DrawText(r.label, x+boxPad, y, canvas.TextOptions{
			Width:     summaryW - 2*boxPad - 90,
			Style:     style,
			Size:      9,
			Color:     inkColor,
			Continued: true,
		})
		e.cv.DrawText(r.value, x+summaryW-boxPad-90, y, canvas.TextOptions{
			Width:     90,
			Align:     canvas.AlignRight,
			Style:     style,
			Size:      9,
			Color:     inkColor,
			Continued: true,
		})
		y += summaryRowH
	}
}

// Terms draws the terms-and-conditions section on the current page.
func (e *Engine) Terms(tpl *quote.Template) {
	y := canvas.Margin
	e.cv.DrawText("Terms & Conditions", canvas.Margin, y, canvas.TextOptions{
		Style: "B",
		Size:  16,
		Color: inkColor,
	})
	y += 30

	body := canvas.TextOptions{Size: 9, LineHeight: 13, Color: inkColor}
	// Height is measured up front so overlong terms are a known
	// quantity, not a surprise at draw time.
	_ = e.cv.MeasureTextHeight(tpl.Terms, contentW, body)
	e.cv.DrawText(tpl.Terms, canvas.Margin, y, withWidth(body, contentW))
}

// SignatureBlock draws the acceptance section on the current page. The
// signer name and timestamp come from signature metadata and render
// even when the image payload does not decode.
func (e *Engine) SignatureBlock(sig *quote.Signature) {
	y := canvas.Margin
	e.cv.DrawText("Acceptance", canvas.Margin, y, canvas.TextOptions{
		Style: "B",
		Size:  16,
		Color: inkColor,
	})
	y += 24
	e.cv.DrawText("This quote was accepted and signed electronically.", canvas.Margin, y, canvas.TextOptions{
		Size:  9,
		Color: mutedColor,
	})
	y += 26

	if img, err := e.res.Signature(sig.Data); err != nil {
		e.log.Warn("signature image skipped", zap.Error(err))
	} else {
		e.cv.DrawImage(img, canvas.Margin, y, 200, 0)
		y += 90
	}

	if sig.SignerName != "" {
		e.cv.DrawText(sig.SignerName, canvas.Margin, y, canvas.TextOptions{
			Style: "B",
			Size:  11,
			Color: inkColor,
		})
		y += 16
	}
	if !sig.SignedAt.IsZero() {
		e.cv.DrawText("Signed on "+sig.SignedAt.Format(dateFormat), canvas.Margin, y, canvas.TextOptions{
			Size:  9,
			Color: mutedColor,
		})
		y += 13
	}
	if sig.IPAddress != "" {
		e.cv.DrawText("IP address: "+sig.IPAddress, canvas.Margin, y, canvas.TextOptions{
			Size:  9,
			Color: mutedColor,
		})
	}
}

func discountLabel(d *quote.Discount) string {
	if d.Kind == quote.Percentage {
		return "Discount (" + money.FormatPercent(d.Value) + ")"
	}
	return "Discount (" + amount(d.Value) + ")"
}

func downPaymentLabel(d *quote.DownPayment) string {
	if d.Kind == quote.Percentage {
		return "Down Payment (" + money.FormatPercent(d.Value) + ")"
	}
	return "Down Payment"
}

func quantityText(item quote.LineItem) string {
	s := item.Quantity.String()
	if item.Unit != "" {
		s += " " + item.Unit
	}
	return s
}

func amount(d decimal.Decimal) string {
	return "$" + money.Format(d)
}

func withWidth(opt canvas.TextOptions, w float64) canvas.TextOptions {
	opt.Width = w
	return opt
}

func alignRight(opt canvas.TextOptions, w float64) canvas.TextOptions {
	opt.Width = w
	opt.Align = canvas.AlignRight
	return opt
}
