package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"extynct-community/internal/httputil"
	"extynct-community/internal/model"
	"extynct-community/internal/service"
	"extynct-community/internal/transport/http/middleware"
)

// PostHandler serves the forum feed.
type PostHandler struct {
	postService  *service.PostService
	mediaService *service.MediaService
}

// NewPostHandler wires dependencies for post endpoints.
func NewPostHandler(postService *service.PostService, mediaService *service.MediaService) *PostHandler {
	return &PostHandler{
		postService:  postService,
		mediaService: mediaService,
	}
}

// List returns every post, newest first
// GET /api/posts
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.List(r.Context())
	if err != nil {
		httputil.WriteInternalError(w, "Failed to load posts")
		return
	}
	if posts == nil {
		posts = []model.Post{}
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"posts": posts,
	})
}

// Create publishes a post for the signed-in account. Accepts multipart
// form data with an optional mediaFile part, or JSON with a mediaUpload
// data URL or a mediaLink.
// POST /api/posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())
	if account == nil {
		httputil.WriteUnauthorized(w, "Sign in to post")
		return
	}

	var (
		req   model.CreatePostRequest
		media *model.Media
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var ok bool
		req, media, ok = h.parseMultipart(w, r)
		if !ok {
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if tooLarge(err) {
				httputil.WritePayloadTooLarge(w, "Request body exceeds the 25MB limit")
				return
			}
			httputil.WriteBadRequest(w, "Invalid request body")
			return
		}
		if req.MediaUpload != nil {
			if req.MediaLink != "" {
				httputil.WriteBadRequest(w, model.ErrMediaConflict.Error())
				return
			}
			contentType, data, err := h.mediaService.DecodeDataURL(req.MediaUpload)
			if err != nil {
				h.writeMediaError(w, err)
				return
			}
			media, err = h.mediaService.StoreUpload(r.Context(), req.MediaUpload.Name, contentType, data)
			if err != nil {
				h.writeMediaError(w, err)
				return
			}
		}
	}

	post, err := h.postService.Create(r.Context(), account, &req, media)
	if err != nil {
		switch {
		case model.IsValidation(err):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrMediaConflict), errors.Is(err, model.ErrInvalidMediaLink):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrSignInRequired):
			httputil.WriteUnauthorized(w, "Sign in to post")
		default:
			httputil.WriteInternalError(w, "Failed to publish the post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"post": post,
	})
}

func (h *PostHandler) parseMultipart(w http.ResponseWriter, r *http.Request) (model.CreatePostRequest, *model.Media, bool) {
	var req model.CreatePostRequest

	if err := r.ParseMultipartForm(model.MaxRequestBody); err != nil {
		if tooLarge(err) {
			httputil.WritePayloadTooLarge(w, "Request body exceeds the 25MB limit")
		} else {
			httputil.WriteBadRequest(w, "Invalid form data")
		}
		return req, nil, false
	}

	req.Title = r.FormValue("title")
	req.Body = r.FormValue("body")
	req.Category = r.FormValue("category")
	req.MediaLink = r.FormValue("mediaLink")

	file, header, err := r.FormFile("mediaFile")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil, true
	}
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid media upload")
		return req, nil, false
	}
	defer file.Close()

	if req.MediaLink != "" {
		httputil.WriteBadRequest(w, model.ErrMediaConflict.Error())
		return req, nil, false
	}
	if header.Size > model.MaxAttachmentSize {
		httputil.WritePayloadTooLarge(w, "Attachments are limited to 20MB")
		return req, nil, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid media upload")
		return req, nil, false
	}

	media, err := h.mediaService.StoreUpload(r.Context(), header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		h.writeMediaError(w, err)
		return req, nil, false
	}
	return req, media, true
}

func (h *PostHandler) writeMediaError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrMediaTooLarge):
		httputil.WriteError(w, http.StatusRequestEntityTooLarge, model.CodeMediaTooLarge, "Attachments are limited to 20MB")
	case model.IsValidation(err):
		httputil.WriteBadRequest(w, err.Error())
	default:
		httputil.WriteInternalError(w, "Failed to store the attachment")
	}
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}
