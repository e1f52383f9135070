package domain

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DetectMedia sniffs the raw content and maps the detected MIME type onto
// one of the engine's media families. The caller's hint wins only when
// sniffing is inconclusive, so a misnamed upload still lands in the right
// pipeline branch.
func DetectMedia(data []byte, hint MediaType) MediaType {
	if hint == "" {
		hint = MediaUnknown
	}
	if len(data) == 0 {
		return hint
	}
	detected := fromMIME(mimetype.Detect(data).String())
	if detected == MediaUnknown {
		return hint
	}
	return detected
}

func fromMIME(mime string) MediaType {
	switch {
	case mime == "application/pdf":
		return MediaPDF
	case strings.HasPrefix(mime, "image/"):
		return MediaImage
	case strings.HasPrefix(mime, "audio/"):
		return MediaAudio
	case strings.HasPrefix(mime, "text/"):
		return MediaText
	default:
		return MediaUnknown
	}
}
