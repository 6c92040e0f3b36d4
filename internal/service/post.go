package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"extynct-community/internal/model"
	"extynct-community/internal/storage"
)

// PostService lists and creates forum posts over a table store.
type PostService struct {
	tables storage.TableStore
}

func NewPostService(tables storage.TableStore) *PostService {
	return &PostService{tables: tables}
}

// List returns all posts sorted newest first.
func (s *PostService) List(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if _, err := s.tables.Load(ctx, storage.TablePosts, &posts); err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

// Create appends a post for the authenticated author. The media
// attachment, if any, has already been stored; an attachment and a link
// are mutually exclusive. A compare-and-swap loss is retried exactly
// once.
func (s *PostService) Create(ctx context.Context, author *model.Account, req *model.CreatePostRequest, media *model.Media) (*model.Post, error) {
	if author == nil {
		return nil, model.ErrSignInRequired
	}

	title := strings.TrimSpace(req.Title)
	body := strings.TrimSpace(req.Body)
	if title == "" {
		return nil, model.Validation("Give your post a title.")
	}
	if body == "" {
		return nil, model.Validation("Share some details in the body field.")
	}

	link := strings.TrimSpace(req.MediaLink)
	if link != "" {
		if media != nil {
			return nil, model.ErrMediaConflict
		}
		if !validMediaLink(link) {
			return nil, model.ErrInvalidMediaLink
		}
		media = &model.Media{Type: model.MediaTypeLink, URL: link}
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = model.DefaultCategory
	}

	post := &model.Post{
		ID:         "post_" + uuid.NewString(),
		AccountID:  author.ID,
		AuthorName: author.Username,
		Author:     &model.AuthorRef{Username: author.Username, Email: author.Email},
		Title:      truncate(title, model.MaxTitleLength),
		Body:       truncate(body, model.MaxBodyLength),
		Category:   category,
		CreatedAt:  time.Now().UTC(),
		Media:      media,
	}

	err := s.appendPost(ctx, post)
	if errors.Is(err, model.ErrVersionConflict) {
		err = s.appendPost(ctx, post)
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) appendPost(ctx context.Context, post *model.Post) error {
	var posts []model.Post
	version, err := s.tables.Load(ctx, storage.TablePosts, &posts)
	if err != nil {
		return fmt.Errorf("load posts: %w", err)
	}

	posts = append(posts, *post)
	_, err = s.tables.Store(ctx, storage.TablePosts, posts, version, "Add forum post "+truncate(post.Title, 40))
	return err
}

func validMediaLink(link string) bool {
	lowered := strings.ToLower(link)
	return strings.HasPrefix(lowered, "http://") || strings.HasPrefix(lowered, "https://")
}

// truncate counts runes so the cut never splits a multi-byte character.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
