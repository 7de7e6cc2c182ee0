package plaintext

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/textcat/internal/core/domain"
)

// Extractor reads UTF-8 text files.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", domain.WrapError(domain.ErrInvalidInput, "read text file", err)
	}
	if !utf8.Valid(raw) {
		return "", domain.WrapError(domain.ErrInvalidInput, "read text file", fmt.Errorf("not valid utf-8: %s", path))
	}
	return strings.TrimSpace(string(raw)), nil
}
