package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/jonkmatsumo/resume-builder/internal/resume"
)

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>
`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>
`

// DOCX renders the resume as a minimal OOXML wordprocessing package: one
// paragraph per export line, no styling beyond the document defaults.
func DOCX(r *resume.Resume) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name, body string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{"word/document.xml", docxDocument(splitEmbedded(Lines(r)))},
	}
	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return nil, &Error{Format: FormatDOCX, Message: "failed to create package part " + part.name, Cause: err}
		}
		if _, err := f.Write([]byte(part.body)); err != nil {
			return nil, &Error{Format: FormatDOCX, Message: "failed to write package part " + part.name, Cause: err}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, &Error{Format: FormatDOCX, Message: "failed to finalize package", Cause: err}
	}
	return buf.Bytes(), nil
}

func docxDocument(lines []string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` + "\n")
	sb.WriteString("<w:body>\n")
	for _, line := range lines {
		if line == "" {
			sb.WriteString("<w:p/>\n")
			continue
		}
		fmt.Fprintf(&sb, `<w:p><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p>`+"\n", escapeXML(line))
	}
	sb.WriteString("</w:body>\n</w:document>\n")
	return sb.String()
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
