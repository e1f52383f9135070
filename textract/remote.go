package textract

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"docintel/domain"
	"docintel/errors"
)

// RemoteClient calls an external extraction service (OCR for images,
// text layer for PDFs, transcription for audio) over HTTP. Any failure
// is wrapped in ErrExtraction so the pipeline degrades the document
// instead of aborting the batch.
type RemoteClient struct {
	baseURL string
	client  *http.Client
}

func NewRemoteClient(baseURL string) *RemoteClient {
	return &RemoteClient{
		baseURL: baseURL,
		client:  http.DefaultClient,
	}
}

type extractRequest struct {
	Media   domain.MediaType `json:"media"`
	Content string           `json:"content"` // base64 raw bytes
}

type extractResponse struct {
	Text   string `json:"text"`
	Method string `json:"method"`
}

func (c *RemoteClient) Extract(ctx context.Context, data []byte, media domain.MediaType) (string, domain.ExtractionMethod, error) {
	payload, err := json.Marshal(extractRequest{
		Media:   media,
		Content: base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return "", domain.MethodNone, fmt.Errorf("%w: %w", errors.ErrExtraction, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract", bytes.NewReader(payload))
	if err != nil {
		return "", domain.MethodNone, fmt.Errorf("%w: %w", errors.ErrExtraction, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", domain.MethodNone, fmt.Errorf("%w: %w", errors.ErrExtraction, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", domain.MethodNone,
			fmt.Errorf("%w: service returned %d: %s", errors.ErrExtraction, resp.StatusCode, body)
	}

	var parsed extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", domain.MethodNone, fmt.Errorf("%w: %w", errors.ErrExtraction, err)
	}
	return parsed.Text, methodFor(media, parsed.Method), nil
}

// methodFor trusts the service's declared method when it is one we
// know, otherwise derives it from the media family.
func methodFor(media domain.MediaType, declared string) domain.ExtractionMethod {
	switch domain.ExtractionMethod(declared) {
	case domain.MethodNative, domain.MethodOCR, domain.MethodTranscription:
		return domain.ExtractionMethod(declared)
	}
	switch media {
	case domain.MediaAudio:
		return domain.MethodTranscription
	case domain.MediaImage:
		return domain.MethodOCR
	default:
		return domain.MethodNative
	}
}
