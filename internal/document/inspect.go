package document

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// inspectPages reads page geometry from raw PDF bytes. The store never parses
// PDF content itself; geometry comes from pdfcpu.
func inspectPages(data []byte) ([]Page, error) {
	if len(data) == 0 {
		return []Page{}, nil
	}

	dims, err := api.PageDims(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("inspect pages: %w", err)
	}

	pages := make([]Page, len(dims))
	for i, dim := range dims {
		pages[i] = Page{
			ID:     uuid.New(),
			Number: i + 1,
			Width:  dim.Width,
			Height: dim.Height,
		}
	}
	return pages, nil
}

// PageCount reports the number of pages in raw PDF bytes.
func PageCount(data []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("page count: %w", err)
	}
	return count, nil
}
