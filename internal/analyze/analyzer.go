package analyze

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ledongthuc/pdf"

	"github.com/voxpaper/paper-narrator/internal/core/domain"
	"github.com/voxpaper/paper-narrator/internal/core/ports"
)

// Analyzer builds one StructuralModel per stored paper in a single forward
// pass over pages. Only document-level errors (unreadable or corrupt input)
// are returned; a failing extraction stage on one page degrades to "nothing
// found" for that page and stage.
type Analyzer struct {
	storage ports.ObjectStorage
}

func New(storage ports.ObjectStorage) *Analyzer {
	return &Analyzer{storage: storage}
}

func (a *Analyzer) Analyze(ctx context.Context, storageKey string) (*domain.StructuralModel, error) {
	rc, err := a.storage.Open(ctx, storageKey)
	if err != nil {
		return nil, domain.WrapError(domain.ErrUnreadableDocument, "open paper", err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, domain.WrapError(domain.ErrUnreadableDocument, "read paper", err)
	}

	reader, err := openReader(raw)
	if err != nil {
		return nil, domain.WrapError(domain.ErrUnreadableDocument, "parse paper", err)
	}

	b := newModelBuilder()
	b.model.SourceBytes = int64(len(raw))
	b.model.PageCount = reader.NumPage()

	var firstPage domain.Page
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var page domain.Page
		stage("layout", i-1, func() {
			page = pageFromPDF(reader.Page(i), i-1)
		})
		if i == 1 {
			firstPage = page
		}

		stage("sections", page.Index, func() { b.scanSections(page) })
		stage("equations", page.Index, func() { b.scanEquations(page) })
		stage("tables", page.Index, func() { b.scanTables(page) })
		stage("figures", page.Index, func() { b.scanFigures(page) })
	}

	stage("metadata", 0, func() {
		b.model.Metadata = extractMetadata(firstPage, reader)
	})

	return &b.model, nil
}

// stage isolates one extraction step. The pdf library panics on malformed
// structures, so a recover here is what keeps a bad page from aborting the
// rest of the document.
func stage(name string, pageIndex int, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("extraction_stage_degraded",
				"stage", name,
				"page", pageIndex,
				"reason", fmt.Sprint(r),
			)
		}
	}()
	fn()
}

func openReader(raw []byte) (reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			reader = nil
			err = fmt.Errorf("pdf reader: %v", r)
		}
	}()
	if len(raw) == 0 {
		return nil, errors.New("empty document")
	}
	return pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
}
