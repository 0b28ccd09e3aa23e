package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	DocumentTitle = "Sumii - Forensische Anamnese"
	bodyFont      = "Helvetica"
	codeFont      = "Courier"
	lineHeight    = 5.5
	listIndent    = 6.0
)

var headingSizes = map[int]float64{1: 20, 2: 16, 3: 13}

type span struct {
	text   string
	bold   bool
	italic bool
	code   bool
}

type renderer struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	src    []byte
	margin float64
}

// Render converts summary markdown to an A4 PDF. referenceNumber is printed above the content when set.
func Render(markdown, referenceNumber string) ([]byte, error) {
	src := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	p := fpdf.New("P", "mm", "A4", "")
	p.SetMargins(20, 25, 20)
	p.SetAutoPageBreak(true, 25)
	p.AliasNbPages("{nb}")
	p.SetTitle(DocumentTitle, true)

	r := &renderer{pdf: p, tr: p.UnicodeTranslatorFromDescriptor("cp1252"), src: src, margin: 20}

	p.SetHeaderFunc(func() {
		p.SetY(10)
		p.SetFont(bodyFont, "", 10)
		p.SetTextColor(102, 102, 102)
		p.CellFormat(0, 6, r.tr(DocumentTitle), "", 0, "C", false, 0, "")
		p.SetTextColor(51, 51, 51)
		p.SetY(25)
	})
	p.SetFooterFunc(func() {
		p.SetY(-15)
		p.SetFont(bodyFont, "", 10)
		p.SetTextColor(102, 102, 102)
		p.CellFormat(0, 6, fmt.Sprintf("Seite %d von {nb}", p.PageNo()), "", 0, "C", false, 0, "")
	})

	p.AddPage()
	p.SetTextColor(51, 51, 51)

	if referenceNumber != "" {
		p.SetFont(bodyFont, "B", 12)
		p.CellFormat(0, 8, r.tr("Aktenzeichen: "+referenceNumber), "", 1, "L", false, 0, "")
		p.Ln(2)
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		r.block(n)
	}

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *renderer) block(n ast.Node) {
	p := r.pdf
	switch node := n.(type) {
	case *ast.Heading:
		size, ok := headingSizes[node.Level]
		if !ok {
			size = 11
		}
		p.Ln(3)
		r.write(r.spans(node, span{bold: true}), size)
		p.Ln(size * 0.5)
		if node.Level == 1 {
			y := p.GetY()
			p.SetDrawColor(51, 51, 51)
			p.Line(r.margin, y, 210-r.margin, y)
			p.Ln(3)
		}

	case *ast.Paragraph, *ast.TextBlock:
		r.write(r.spans(node, span{}), 11)
		if _, tight := node.(*ast.TextBlock); !tight {
			p.Ln(2)
		}

	case *ast.List:
		index := node.Start
		if index == 0 {
			index = 1
		}
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			marker := "•"
			if node.IsOrdered() {
				marker = fmt.Sprintf("%d.", index)
				index++
			}
			r.listItem(item, marker)
		}
		p.Ln(1)

	case *ast.Blockquote:
		p.SetTextColor(102, 102, 102)
		r.indent(listIndent, func() {
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				r.block(c)
			}
		})
		p.SetTextColor(51, 51, 51)

	case *ast.ThematicBreak:
		p.Ln(2)
		y := p.GetY()
		p.SetDrawColor(204, 204, 204)
		p.Line(r.margin, y, 210-r.margin, y)
		p.Ln(4)

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		p.SetFont(codeFont, "", 10)
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			p.MultiCell(0, 5, r.tr(strings.TrimRight(string(seg.Value(r.src)), "\n")), "", "L", false)
		}
		p.Ln(2)

	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			r.block(c)
		}
	}
}

func (r *renderer) listItem(item ast.Node, marker string) {
	p := r.pdf
	left, _, _, _ := p.GetMargins()
	p.SetFont(bodyFont, "", 11)
	p.SetX(left)
	p.CellFormat(listIndent, lineHeight, r.tr(marker), "", 0, "L", false, 0, "")
	r.indent(listIndent, func() {
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			r.block(c)
		}
	})
}

func (r *renderer) indent(by float64, fn func()) {
	p := r.pdf
	left, _, _, _ := p.GetMargins()
	p.SetLeftMargin(left + by)
	fn()
	p.SetLeftMargin(left)
	p.SetX(left)
}

func (r *renderer) write(spans []span, size float64) {
	p := r.pdf
	for _, s := range spans {
		family, style := bodyFont, ""
		if s.code {
			family = codeFont
		}
		if s.bold {
			style += "B"
		}
		if s.italic {
			style += "I"
		}
		p.SetFont(family, style, size)
		p.Write(size*0.5, r.tr(s.text))
	}
	p.Ln(size * 0.5)
}

// spans flattens inline children, carrying emphasis down the tree.
func (r *renderer) spans(n ast.Node, style span) []span {
	var out []span
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch inline := c.(type) {
		case *ast.Text:
			s := style
			s.text = string(inline.Segment.Value(r.src))
			if inline.SoftLineBreak() || inline.HardLineBreak() {
				s.text += " "
			}
			out = append(out, s)
		case *ast.String:
			s := style
			s.text = string(inline.Value)
			out = append(out, s)
		case *ast.Emphasis:
			s := style
			if inline.Level >= 2 {
				s.bold = true
			} else {
				s.italic = true
			}
			out = append(out, r.spans(inline, s)...)
		case *ast.CodeSpan:
			s := style
			s.code = true
			out = append(out, r.spans(inline, s)...)
		case *ast.AutoLink:
			s := style
			s.text = string(inline.URL(r.src))
			out = append(out, s)
		default:
			out = append(out, r.spans(c, style)...)
		}
	}
	return out
}
