// Package textract implements the engine's text-extraction boundary:
// a native passthrough for plain text, an HTTP client for external
// OCR/ASR/PDF services and a router that picks one per media type.
package textract

import (
	"context"
	"fmt"
	"strings"

	"docintel/domain"
	"docintel/errors"
)

// Native handles text-media documents by decoding the raw bytes as
// UTF-8, dropping invalid sequences. No external call involved.
type Native struct{}

func NewNative() Native {
	return Native{}
}

func (Native) Extract(_ context.Context, data []byte, media domain.MediaType) (string, domain.ExtractionMethod, error) {
	if media != domain.MediaText {
		return "", domain.MethodNone,
			fmt.Errorf("%w: native extractor got %s: %w", errors.ErrExtraction, media, errors.ErrUnsupportedMedia)
	}
	text := strings.ToValidUTF8(string(data), "")
	return strings.TrimSpace(text), domain.MethodNative, nil
}
