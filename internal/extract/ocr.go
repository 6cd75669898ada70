package extract

import (
	"context"
	"fmt"

	"github.com/evergrid/emissary/internal/common"
)

// StubOCR is a canned OCRClient used by tests and by deployments that have
// no recognition backend configured.
type StubOCR struct {
	Err  error
	Text string
}

// Recognize returns the canned text or error.
func (s StubOCR) Recognize(_ context.Context, _ []byte) (string, error) {
	if s.Err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrOCR, s.Err)
	}
	return s.Text, nil
}

// UnavailableOCR always fails; image submissions fall back to empty text and
// land in manual extraction.
type UnavailableOCR struct{}

// Recognize reports that no OCR backend is configured.
func (UnavailableOCR) Recognize(_ context.Context, _ []byte) (string, error) {
	return "", fmt.Errorf("%w: no ocr backend configured", common.ErrOCR)
}
