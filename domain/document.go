package domain

// DocumentID is assigned by the owning session, monotonically from 1,
// in submission order. IDs are never reused within a session.
type DocumentID int

type MediaType string

const (
	MediaUnknown MediaType = "unknown"
	MediaImage   MediaType = "image"
	MediaPDF     MediaType = "pdf"
	MediaAudio   MediaType = "audio"
	MediaText    MediaType = "text"
)

// ExtractionMethod records how the normalized text was produced.
type ExtractionMethod string

const (
	// MethodNone marks a document whose extraction failed or was skipped.
	MethodNone          ExtractionMethod = "none"
	MethodNative        ExtractionMethod = "native"
	MethodOCR           ExtractionMethod = "ocr"
	MethodTranscription ExtractionMethod = "transcription"
)

// Document is immutable once its text has been normalized.
// Language is the ISO 639-1 code detected on the normalized text,
// empty when detection was inconclusive or the text is empty.
type Document struct {
	ID       DocumentID       `json:"id"`
	Filename string           `json:"filename"`
	Media    MediaType        `json:"media"`
	Text     string           `json:"text"`
	Method   ExtractionMethod `json:"method"`
	Language string           `json:"language,omitempty"`
}
