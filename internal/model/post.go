package model

import (
	"errors"
	"time"
)

// Post is a forum thread starter. Posts are append-only: no edit or
// delete path exists once one is persisted.
type Post struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId,omitempty"`
	// AuthorName is the denormalized username the API server variant
	// renders; Author carries the richer record the repository and
	// local variants embed. Older collections may hold either shape.
	AuthorName string     `json:"authorName,omitempty"`
	Author     *AuthorRef `json:"author,omitempty"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	Category   string     `json:"category"`
	CreatedAt  time.Time  `json:"createdAt"`
	Media      *Media     `json:"media"`
}

// AuthorRef is the denormalized author copy embedded in posts by
// variants that have no account id to reference.
type AuthorRef struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// DisplayAuthor returns the best available author name for rendering.
func (p *Post) DisplayAuthor() string {
	if p.Author != nil && p.Author.Username != "" {
		return p.Author.Username
	}
	if p.AuthorName != "" {
		return p.AuthorName
	}
	return "unknown"
}

// Media is the tagged attachment variant on a post: an uploaded file or
// an external link. A nil *Media means no attachment.
type Media struct {
	Type         string `json:"type"`
	URL          string `json:"url"`
	Path         string `json:"path,omitempty"`
	OriginalName string `json:"originalName,omitempty"`
	MimeType     string `json:"mimeType,omitempty"`
	Size         int64  `json:"size,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// Media type tags
const (
	MediaTypeFile = "file"
	MediaTypeLink = "link"
)

// CreatePostRequest is the JSON body for creating a post. MediaUpload and
// MediaLink are mutually exclusive; multipart requests carry the file in
// the mediaFile form field instead of MediaUpload.
type CreatePostRequest struct {
	Title       string       `json:"title"`
	Body        string       `json:"body"`
	Category    string       `json:"category"`
	MediaLink   string       `json:"mediaLink,omitempty"`
	MediaUpload *MediaUpload `json:"mediaUpload,omitempty"`
}

// MediaUpload is an inline attachment encoded as a data URL.
type MediaUpload struct {
	Name    string `json:"name"`
	DataURL string `json:"dataUrl"`
}

// Content and attachment limits.
const (
	MaxTitleLength  = 200
	MaxBodyLength   = 5000
	DefaultCategory = "General"

	// MaxAttachmentSize caps a single uploaded attachment.
	MaxAttachmentSize = 20 * 1024 * 1024

	// MaxRequestBody caps the whole request before buffering completes.
	MaxRequestBody = 25 * 1024 * 1024

	// Repository-backed uploads carry tighter caps since every byte lands
	// in a git blob.
	MaxRepoImageSize = 2 * 1024 * 1024
	MaxRepoVideoSize = 6 * 1024 * 1024
)

var (
	// ErrMediaTooLarge is returned before any byte is written
	ErrMediaTooLarge = errors.New("attachment exceeds the size limit")

	// ErrMediaConflict is returned when both an upload and a link are supplied
	ErrMediaConflict = errors.New("choose either an upload or a link, not both")

	// ErrInvalidMediaLink is returned for non-http(s) link URLs
	ErrInvalidMediaLink = errors.New("media links must start with http:// or https://")
)

// Error codes carried in HTTP error bodies.
const (
	CodeMediaTooLarge = "MEDIA_TOO_LARGE"
	CodeDuplicate     = "DUPLICATE"
)
