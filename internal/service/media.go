package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"extynct-community/internal/blob"
	"extynct-community/internal/model"
)

// thumbnail bound for image attachments, longest side in pixels
const thumbnailSize = 640

// MediaService validates attachment bytes and writes them through a blob
// sink. Size limits are enforced before any byte is written.
type MediaService struct {
	sink blob.Sink
}

func NewMediaService(sink blob.Sink) *MediaService {
	return &MediaService{sink: sink}
}

// StoreUpload persists one attachment and returns its media record.
// Image uploads additionally get a bounded JPEG thumbnail next to the
// original; thumbnail generation failing never fails the upload.
func (s *MediaService) StoreUpload(ctx context.Context, name, contentType string, data []byte) (*model.Media, error) {
	if int64(len(data)) > model.MaxAttachmentSize {
		return nil, model.ErrMediaTooLarge
	}
	if len(data) == 0 {
		return nil, model.Validation("The uploaded file is empty.")
	}

	if contentType == "" {
		contentType = http.DetectContentType(data[:min(len(data), 512)])
	}
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}

	url, err := s.sink.Put(ctx, name, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("store attachment: %w", err)
	}

	media := &model.Media{
		Type:         model.MediaTypeFile,
		URL:          url,
		OriginalName: name,
		MimeType:     contentType,
		Size:         int64(len(data)),
	}

	if strings.HasPrefix(contentType, "image/") {
		if thumbURL, err := s.storeThumbnail(ctx, name, data); err != nil {
			log.Printf("[media] Thumbnail for %s skipped: %v", name, err)
		} else {
			media.ThumbnailURL = thumbURL
		}
	}
	return media, nil
}

func (s *MediaService) storeThumbnail(ctx context.Context, name string, data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > thumbnailSize || bounds.Dy() > thumbnailSize {
		img = imaging.Fit(img, thumbnailSize, thumbnailSize, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}

	ext := filepath.Ext(name)
	thumbName := strings.TrimSuffix(name, ext) + "-thumb.jpg"
	return s.sink.Put(ctx, thumbName, "image/jpeg", buf.Bytes())
}

// DecodeDataURL unpacks an inline data-URL attachment, rejecting
// oversized payloads before decoding the full body.
func (s *MediaService) DecodeDataURL(upload *model.MediaUpload) (contentType string, data []byte, err error) {
	const scheme = "data:"
	raw := strings.TrimSpace(upload.DataURL)
	if !strings.HasPrefix(raw, scheme) {
		return "", nil, model.Validation("The media payload is not a valid data URL.")
	}

	comma := strings.Index(raw, ",")
	if comma < 0 {
		return "", nil, model.Validation("The media payload is not a valid data URL.")
	}

	meta := raw[len(scheme):comma]
	payload := raw[comma+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return "", nil, model.Validation("Only base64 data URLs are supported.")
	}
	contentType = strings.TrimSuffix(meta, ";base64")

	// Base64 expands 3 bytes to 4 chars; reject before decoding.
	if int64(len(payload))/4*3 > model.MaxAttachmentSize {
		return "", nil, model.ErrMediaTooLarge
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, model.Validation("The media payload could not be decoded.")
	}
	if int64(len(data)) > model.MaxAttachmentSize {
		return "", nil, model.ErrMediaTooLarge
	}
	return contentType, data, nil
}
