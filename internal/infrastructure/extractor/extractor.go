// Package extractor selects a text extractor by file extension.
package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kirillkom/textcat/internal/core/domain"
	"github.com/kirillkom/textcat/internal/core/ports"
	"github.com/kirillkom/textcat/internal/infrastructure/extractor/pdf"
	"github.com/kirillkom/textcat/internal/infrastructure/extractor/plaintext"
)

type Router struct {
	byExt    map[string]ports.TextExtractor
	fallback ports.TextExtractor
}

// New handles .pdf with the PDF extractor and everything else as UTF-8 text.
func New() *Router {
	return NewRouter(map[string]ports.TextExtractor{".pdf": pdf.NewExtractor()}, plaintext.NewExtractor())
}

func NewRouter(byExt map[string]ports.TextExtractor, fallback ports.TextExtractor) *Router {
	normalized := make(map[string]ports.TextExtractor, len(byExt))
	for ext, e := range byExt {
		normalized[strings.ToLower(ext)] = e
	}
	return &Router{byExt: normalized, fallback: fallback}
}

func (r *Router) Extract(ctx context.Context, path string) (string, error) {
	e, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		e = r.fallback
	}
	if e == nil {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract text", fmt.Errorf("unsupported file: %s", path))
	}
	return e.Extract(ctx, path)
}
