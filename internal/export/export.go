// Package export renders a resume document into downloadable byte payloads.
// Exports are simple text and field concatenations ordered by the section
// registry; this is deliberately not a layout engine.
package export

import (
	"fmt"
	"strings"

	"github.com/jonkmatsumo/resume-builder/internal/resume"
)

// Format identifies an export output format.
type Format string

const (
	FormatText Format = "txt"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatZip  Format = "zip"
)

// Error represents an export rendering failure. Export operates on a
// read-only snapshot, so the edited document is never lost on failure.
type Error struct {
	Format  Format
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export error (%s): %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("export error (%s): %s", e.Format, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ParseFormat validates a format string from the API.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatPDF, FormatDOCX, FormatZip:
		return Format(s), nil
	default:
		return "", &Error{Format: Format(s), Message: "unsupported format"}
	}
}

// MediaType returns the Content-Type for a format.
func (f Format) MediaType() string {
	switch f {
	case FormatText:
		return "text/plain; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatZip:
		return "application/zip"
	default:
		return "application/octet-stream"
	}
}

// Filename derives the download filename from the resume title: whitespace
// becomes underscores, suffixed with _resume and the format extension.
func Filename(title string, f Format) string {
	name := strings.Join(strings.Fields(title), "_")
	if name == "" {
		name = "Untitled"
	}
	return fmt.Sprintf("%s_resume.%s", name, f)
}

// Render produces the byte payload for a single-format export.
func Render(r *resume.Resume, f Format) ([]byte, error) {
	switch f {
	case FormatText:
		return []byte(Text(r)), nil
	case FormatPDF:
		return PDF(r)
	case FormatDOCX:
		return DOCX(r)
	default:
		return nil, &Error{Format: f, Message: "unsupported format"}
	}
}
