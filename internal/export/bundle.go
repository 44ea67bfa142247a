package export

import (
	"archive/zip"
	"bytes"
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonkmatsumo/resume-builder/internal/resume"
)

// bundleFormats are the single-document formats included in a zip bundle.
var bundleFormats = []Format{FormatText, FormatPDF, FormatDOCX}

// Bundle renders every export format concurrently and packages the results
// into a single zip archive. Rendering works on a read-only snapshot, so
// the formats can run in parallel safely.
func Bundle(ctx context.Context, r *resume.Resume) ([]byte, error) {
	g, _ := errgroup.WithContext(ctx)

	var mu sync.Mutex
	rendered := make(map[Format][]byte, len(bundleFormats))

	for _, f := range bundleFormats {
		g.Go(func() error {
			payload, err := Render(r, f)
			if err != nil {
				return err
			}
			mu.Lock()
			rendered[f] = payload
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range bundleFormats {
		entry, err := zw.Create(Filename(r.Title, f))
		if err != nil {
			return nil, &Error{Format: FormatZip, Message: "failed to create archive entry", Cause: err}
		}
		if _, err := entry.Write(rendered[f]); err != nil {
			return nil, &Error{Format: FormatZip, Message: "failed to write archive entry", Cause: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, &Error{Format: FormatZip, Message: "failed to finalize archive", Cause: err}
	}
	return buf.Bytes(), nil
}
