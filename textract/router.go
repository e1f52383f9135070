package textract

import (
	"context"
	"fmt"

	"docintel/contract"
	"docintel/domain"
	"docintel/errors"
)

var _ contract.TextExtractor = (*Router)(nil)

// Router picks the extractor for a document's media family: plain text
// stays local, everything else goes to the remote service. With no
// remote configured, non-text media yields an extraction error that the
// pipeline consumes as a per-document degradation.
type Router struct {
	native Native
	remote contract.TextExtractor
}

func NewRouter(remote contract.TextExtractor) *Router {
	return &Router{native: NewNative(), remote: remote}
}

func (r *Router) Extract(ctx context.Context, data []byte, media domain.MediaType) (string, domain.ExtractionMethod, error) {
	switch media {
	case domain.MediaText:
		return r.native.Extract(ctx, data, media)
	case domain.MediaImage, domain.MediaPDF, domain.MediaAudio:
		if r.remote == nil {
			return "", domain.MethodNone,
				fmt.Errorf("%w: no extraction service configured for %s", errors.ErrExtraction, media)
		}
		return r.remote.Extract(ctx, data, media)
	default:
		return "", domain.MethodNone,
			fmt.Errorf("%w: %w: %s", errors.ErrExtraction, errors.ErrUnsupportedMedia, media)
	}
}
