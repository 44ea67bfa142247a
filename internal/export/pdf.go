package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jonkmatsumo/resume-builder/internal/resume"
)

// Page geometry for the generated PDF: US Letter, one-inch margins, a
// single built-in Helvetica font. Long documents flow onto extra pages but
// no other layout is attempted.
const (
	pdfPageWidth  = 612
	pdfPageHeight = 792
	pdfMargin     = 72
	pdfFontSize   = 11
	pdfLeading    = 14
)

// PDF renders the resume as a minimal but well-formed PDF document carrying
// the same line sequence as the plain-text export.
func PDF(r *resume.Resume) ([]byte, error) {
	lines := splitEmbedded(Lines(r))

	linesPerPage := (pdfPageHeight - 2*pdfMargin) / pdfLeading
	var pages [][]string
	for start := 0; start < len(lines); start += linesPerPage {
		end := start + linesPerPage
		if end > len(lines) {
			end = len(lines)
		}
		pages = append(pages, lines[start:end])
	}
	if len(pages) == 0 {
		pages = [][]string{{}}
	}

	w := &pdfWriter{}
	w.header()

	// Object numbering: 1 catalog, 2 page tree, 3 font, then an
	// alternating page/content pair per page.
	pageObj := func(i int) int { return 4 + 2*i }
	contentObj := func(i int) int { return 5 + 2*i }

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", pageObj(i))
	}

	w.object(1, "<< /Type /Catalog /Pages 2 0 R >>")
	w.object(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), len(pages)))
	w.object(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i, pageLines := range pages {
		w.object(pageObj(i), fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Contents %d 0 R /Resources << /Font << /F1 3 0 R >> >> >>",
			pdfPageWidth, pdfPageHeight, contentObj(i)))
		w.streamObject(contentObj(i), contentStream(pageLines))
	}

	w.finish()
	return w.buf.Bytes(), nil
}

func contentStream(lines []string) string {
	var sb strings.Builder
	sb.WriteString("BT\n")
	fmt.Fprintf(&sb, "/F1 %d Tf\n", pdfFontSize)
	fmt.Fprintf(&sb, "%d TL\n", pdfLeading)
	fmt.Fprintf(&sb, "%d %d Td\n", pdfMargin, pdfPageHeight-pdfMargin)
	for _, line := range lines {
		fmt.Fprintf(&sb, "(%s) Tj\nT*\n", escapePDF(line))
	}
	sb.WriteString("ET")
	return sb.String()
}

// escapePDF escapes the characters with special meaning in PDF string
// literals.
func escapePDF(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)
	return replacer.Replace(s)
}

// splitEmbedded expands lines containing embedded newlines (multi-line
// descriptions) into individual render lines.
func splitEmbedded(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, strings.Split(line, "\n")...)
	}
	return out
}

// pdfWriter assembles PDF objects and the cross-reference table.
type pdfWriter struct {
	buf     bytes.Buffer
	offsets map[int]int
	maxObj  int
}

func (w *pdfWriter) header() {
	w.offsets = make(map[int]int)
	w.buf.WriteString("%PDF-1.4\n")
}

func (w *pdfWriter) object(num int, body string) {
	w.record(num)
	fmt.Fprintf(&w.buf, "%d 0 obj\n%s\nendobj\n", num, body)
}

func (w *pdfWriter) streamObject(num int, stream string) {
	w.record(num)
	fmt.Fprintf(&w.buf, "%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
		num, len(stream), stream)
}

func (w *pdfWriter) record(num int) {
	w.offsets[num] = w.buf.Len()
	if num > w.maxObj {
		w.maxObj = num
	}
}

func (w *pdfWriter) finish() {
	xrefStart := w.buf.Len()
	fmt.Fprintf(&w.buf, "xref\n0 %d\n", w.maxObj+1)
	w.buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= w.maxObj; i++ {
		fmt.Fprintf(&w.buf, "%010d 00000 n \n", w.offsets[i])
	}
	fmt.Fprintf(&w.buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		w.maxObj+1, xrefStart)
}
