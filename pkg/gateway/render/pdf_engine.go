package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/encoding/charmap"
)

const (
	customFontFamily = "body"
	pointToMM        = 25.4 / 72
	blockSpacing     = 2.5
	listIndent       = 6
	quoteIndent      = 6
)

// PDFEngine lays out markdown into A4 PDF pages. It holds no document state;
// every Acquire returns a fresh session.
type PDFEngine struct {
	fontPath string
}

var _ Engine = (*PDFEngine)(nil)

// NewPDFEngine returns an engine using the built-in Helvetica font, or the
// UTF-8 TrueType font at fontPath when it is not empty. Helvetica only covers
// cp1252, so Greek, Cyrillic or CJK text needs a TrueType font; without one
// those characters are replaced and a warning is logged.
func NewPDFEngine(fontPath string) *PDFEngine {
	return &PDFEngine{fontPath: fontPath}
}

func (e *PDFEngine) Acquire(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var font []byte
	if e.fontPath != "" {
		data, err := os.ReadFile(e.fontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load font %s: %w", e.fontPath, err)
		}
		font = data
	}

	return &pdfSession{
		font:     font,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}, nil
}

type pdfSession struct {
	font     []byte
	markdown goldmark.Markdown
	closed   bool
}

func (s *pdfSession) Close() error {
	if s.closed {
		return errors.New("session already closed")
	}
	s.closed = true
	s.font = nil
	s.markdown = nil
	return nil
}

func (s *pdfSession) Layout(job Job) ([]byte, error) {
	if s.closed {
		return nil, errors.New("session is closed")
	}

	style := job.Style
	pdf := fpdf.New("P", "mm", style.PageSize, "")

	w := &pdfWriter{
		pdf:    pdf,
		source: []byte(job.Markup),
		style:  style,
		family: style.FontFamily,
		mono:   style.MonoFamily,
		tr:     func(s string) string { return s },
	}

	if s.font != nil {
		for _, fontStyle := range []string{"", "B", "I", "BI"} {
			pdf.AddUTF8FontFromBytes(customFontFamily, fontStyle, s.font)
		}
		w.family = customFontFamily
		w.mono = customFontFamily
	} else {
		w.tr = pdf.UnicodeTranslatorFromDescriptor("")
		if r, found := firstUnencodable(job.Markup); found {
			slog.Warn("document has characters the built-in font cannot show, set a TrueType font",
				"title", job.Title, "char", string(r))
		}
	}

	margin := style.MarginMM()
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(job.Title, true)
	pdf.SetAuthor(job.Author, true)
	pdf.AddPage()

	if pdf.Err() {
		return nil, pdf.Error()
	}

	doc := s.markdown.Parser().Parse(text.NewReader(w.source))
	w.blocks(doc)

	if pdf.Err() {
		return nil, pdf.Error()
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}

	return buf.Bytes(), nil
}

// firstUnencodable returns the first rune of s outside cp1252.
func firstUnencodable(s string) (rune, bool) {
	for _, r := range s {
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return r, true
		}
	}
	return 0, false
}

type run struct {
	text    string
	bold    bool
	italic  bool
	mono    bool
	newline bool
}

type pdfWriter struct {
	pdf    *fpdf.Fpdf
	source []byte
	style  Style
	family string
	mono   string
	tr     func(string) string
}

func (w *pdfWriter) lineHeight(size float64) float64 {
	return size * pointToMM * w.style.LineSpacing
}

func (w *pdfWriter) setColor(c RGB) {
	w.pdf.SetTextColor(c.R, c.G, c.B)
}

func (w *pdfWriter) setFont(r run, size float64) {
	family := w.family
	if r.mono {
		family = w.mono
	}

	fontStyle := ""
	if r.bold {
		fontStyle += "B"
	}
	if r.italic {
		fontStyle += "I"
	}

	w.pdf.SetFont(family, fontStyle, size)
}

func (w *pdfWriter) blocks(parent ast.Node) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		w.block(n)
	}
}

func (w *pdfWriter) block(n ast.Node) {
	switch node := n.(type) {
	case *ast.Heading:
		w.heading(node)
	case *ast.Paragraph, *ast.TextBlock:
		w.paragraph(node)
	case *ast.ThematicBreak:
		w.rule()
	case *ast.List:
		w.list(node)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		w.code(node)
	case *ast.Blockquote:
		w.quote(node)
	case *east.Table:
		w.table(node)
	case *ast.HTMLBlock:
		// raw html has no layout
	default:
		w.blocks(node)
	}
}

func (w *pdfWriter) runs(n ast.Node, bold, italic, mono bool, out []run) []run {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			out = append(out, run{text: string(node.Segment.Value(w.source)), bold: bold, italic: italic, mono: mono})
			if node.HardLineBreak() {
				out = append(out, run{newline: true})
			} else if node.SoftLineBreak() {
				out = append(out, run{text: " ", bold: bold, italic: italic, mono: mono})
			}
		case *ast.String:
			out = append(out, run{text: string(node.Value), bold: bold, italic: italic, mono: mono})
		case *ast.Emphasis:
			out = w.runs(node, bold || node.Level >= 2, italic || node.Level == 1, mono, out)
		case *ast.CodeSpan:
			out = w.runs(node, bold, italic, true, out)
		case *ast.AutoLink:
			out = append(out, run{text: string(node.URL(w.source)), bold: bold, italic: italic, mono: mono})
		case *ast.RawHTML:
		case *east.TaskCheckBox:
			box := "[ ] "
			if node.IsChecked {
				box = "[x] "
			}
			out = append(out, run{text: box, bold: bold, italic: italic, mono: mono})
		default:
			out = w.runs(node, bold, italic, mono, out)
		}
	}
	return out
}

func plain(runs []run) string {
	var b strings.Builder
	for _, r := range runs {
		if r.newline {
			b.WriteString(" ")
			continue
		}
		b.WriteString(r.text)
	}
	return strings.TrimSpace(b.String())
}

func (w *pdfWriter) writeRuns(runs []run, size float64) {
	h := w.lineHeight(size)
	w.setColor(w.style.TextColor)

	for _, r := range runs {
		if r.newline {
			w.pdf.Ln(h)
			continue
		}
		w.setFont(r, size)
		w.pdf.Write(h, w.tr(r.text))
	}
}

func (w *pdfWriter) heading(node *ast.Heading) {
	size := w.style.headingSize(node.Level)
	h := w.lineHeight(size)

	w.pdf.Ln(h * 0.3)
	w.pdf.SetFont(w.family, "B", size)
	w.setColor(w.style.HeadingColor)
	w.pdf.MultiCell(0, h, w.tr(plain(w.runs(node, true, false, false, nil))), "", "L", false)
	w.pdf.Ln(1.5)
}

func (w *pdfWriter) paragraph(node ast.Node) {
	w.writeRuns(w.runs(node, false, false, false, nil), w.style.BodySize)
	w.pdf.Ln(w.lineHeight(w.style.BodySize))
	w.pdf.Ln(blockSpacing)
}

func (w *pdfWriter) rule() {
	left, _, right, _ := w.pdf.GetMargins()
	pageWidth, _ := w.pdf.GetPageSize()

	y := w.pdf.GetY() + 2
	w.pdf.SetDrawColor(w.style.RuleColor.R, w.style.RuleColor.G, w.style.RuleColor.B)
	w.pdf.SetLineWidth(0.3)
	w.pdf.Line(left, y, pageWidth-right, y)
	w.pdf.SetY(y + 4)
}

func (w *pdfWriter) list(list *ast.List) {
	left, _, _, _ := w.pdf.GetMargins()
	h := w.lineHeight(w.style.BodySize)

	number := list.Start
	if number == 0 {
		number = 1
	}

	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "•"
		if list.IsOrdered() {
			marker = fmt.Sprintf("%d.", number)
			number++
		}

		w.pdf.SetFont(w.family, "", w.style.BodySize)
		w.setColor(w.style.TextColor)
		w.pdf.SetX(left)
		w.pdf.CellFormat(listIndent, h, w.tr(marker), "", 0, "L", false, 0, "")
		w.pdf.SetLeftMargin(left + listIndent)

		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			switch node := child.(type) {
			case *ast.List:
				w.list(node)
			case *ast.Paragraph, *ast.TextBlock:
				w.writeRuns(w.runs(node, false, false, false, nil), w.style.BodySize)
				w.pdf.Ln(h)
			default:
				w.block(node)
			}
		}

		w.pdf.SetLeftMargin(left)
		w.pdf.SetX(left)
	}

	w.pdf.Ln(blockSpacing)
}

func (w *pdfWriter) code(node ast.Node) {
	var b strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		b.Write(segment.Value(w.source))
	}

	size := w.style.BodySize - 1.5
	w.pdf.SetFont(w.mono, "", size)
	w.setColor(w.style.TextColor)
	w.pdf.SetFillColor(w.style.CodeFill.R, w.style.CodeFill.G, w.style.CodeFill.B)
	w.pdf.MultiCell(0, w.lineHeight(size), w.tr(strings.TrimRight(b.String(), "\n")), "", "L", true)
	w.pdf.Ln(blockSpacing)
}

func (w *pdfWriter) quote(node *ast.Blockquote) {
	left, _, _, _ := w.pdf.GetMargins()

	w.pdf.SetLeftMargin(left + quoteIndent)
	w.pdf.SetX(left + quoteIndent)
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if p, ok := child.(*ast.Paragraph); ok {
			w.writeRuns(w.runs(p, false, true, false, nil), w.style.BodySize)
			w.pdf.Ln(w.lineHeight(w.style.BodySize))
			w.pdf.Ln(blockSpacing)
			continue
		}
		w.block(child)
	}
	w.pdf.SetLeftMargin(left)
	w.pdf.SetX(left)
}

func (w *pdfWriter) table(table *east.Table) {
	var (
		rows   [][]string
		header = -1
	)

	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, plain(w.runs(cell, false, false, false, nil)))
		}
		if _, ok := row.(*east.TableHeader); ok {
			header = len(rows)
		}
		rows = append(rows, cells)
	}

	columns := 0
	for _, cells := range rows {
		columns = max(columns, len(cells))
	}
	if columns == 0 {
		return
	}

	left, _, right, bottom := w.pdf.GetMargins()
	pageWidth, pageHeight := w.pdf.GetPageSize()
	columnWidth := (pageWidth - left - right) / float64(columns)
	pad := w.style.TablePadding
	size := w.style.BodySize
	h := w.lineHeight(size)

	w.pdf.SetDrawColor(w.style.TableBorderColor.R, w.style.TableBorderColor.G, w.style.TableBorderColor.B)
	w.pdf.SetFillColor(w.style.TableHeaderFill.R, w.style.TableHeaderFill.G, w.style.TableHeaderFill.B)
	w.pdf.SetLineWidth(0.26)
	w.setColor(w.style.TextColor)
	w.pdf.Ln(1)

	for i, cells := range rows {
		isHeader := i == header
		fontStyle := ""
		if isHeader {
			fontStyle = "B"
		}
		w.pdf.SetFont(w.family, fontStyle, size)

		wrapped := make([][]string, columns)
		lineCount := 1
		for c := 0; c < columns; c++ {
			cell := ""
			if c < len(cells) {
				cell = cells[c]
			}
			wrapped[c] = w.wrap(cell, columnWidth-2*pad)
			lineCount = max(lineCount, len(wrapped[c]))
		}

		rowHeight := float64(lineCount)*h + pad
		y := w.pdf.GetY()
		if y+rowHeight > pageHeight-bottom {
			w.pdf.AddPage()
			y = w.pdf.GetY()
		}

		for c := 0; c < columns; c++ {
			x := left + float64(c)*columnWidth

			rectStyle := "D"
			if isHeader {
				rectStyle = "FD"
			}
			w.pdf.Rect(x, y, columnWidth, rowHeight, rectStyle)

			for j, line := range wrapped[c] {
				w.pdf.SetXY(x+pad, y+pad/2+float64(j)*h)
				w.pdf.CellFormat(columnWidth-2*pad, h, line, "", 0, "L", false, 0, "")
			}
		}

		w.pdf.SetXY(left, y+rowHeight)
	}

	w.pdf.Ln(blockSpacing + 1)
}

// wrap splits s into translated lines no wider than width in the current font.
func (w *pdfWriter) wrap(s string, width float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var (
		lines   []string
		current string
	)

	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if w.pdf.GetStringWidth(w.tr(candidate)) <= width {
			current = candidate
			continue
		}

		if current != "" {
			lines = append(lines, w.tr(current))
		}
		current = ""

		// a single word wider than the column is broken by rune
		for _, r := range word {
			next := current + string(r)
			if current != "" && w.pdf.GetStringWidth(w.tr(next)) > width {
				lines = append(lines, w.tr(current))
				next = string(r)
			}
			current = next
		}
	}

	if current != "" {
		lines = append(lines, w.tr(current))
	}

	return lines
}
