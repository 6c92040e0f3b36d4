package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"extynct-community/internal/model"
	"extynct-community/internal/storage"
)

var testAuthor = &model.Account{
	ID:       "acct_1",
	Username: "nova_racer",
	Email:    "nova@example.com",
}

func TestPostService_Create_RequiresAuthor(t *testing.T) {
	tables := newMockTables()
	svc := NewPostService(tables)

	_, err := svc.Create(context.Background(), nil, &model.CreatePostRequest{
		Title: "First post",
		Body:  "Hello",
	}, nil)

	if !errors.Is(err, model.ErrSignInRequired) {
		t.Fatalf("error = %v, want ErrSignInRequired", err)
	}
	if tables.storeCalls != 0 {
		t.Error("no post may be persisted for an unauthenticated caller")
	}
}

func TestPostService_Create_Success(t *testing.T) {
	tables := newMockTables()
	svc := NewPostService(tables)

	post, err := svc.Create(context.Background(), testAuthor, &model.CreatePostRequest{
		Title: "  Launch day!  ",
		Body:  "We are live.",
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if post.Title != "Launch day!" {
		t.Errorf("title = %q (should be trimmed)", post.Title)
	}
	if post.Category != model.DefaultCategory {
		t.Errorf("category = %q, want %q", post.Category, model.DefaultCategory)
	}
	if post.AccountID != "acct_1" || post.AuthorName != "nova_racer" {
		t.Errorf("author fields = %q / %q", post.AccountID, post.AuthorName)
	}
	if post.Author == nil || post.Author.Email != "nova@example.com" {
		t.Errorf("author ref = %+v", post.Author)
	}
	if post.Media != nil {
		t.Errorf("media = %+v, want nil", post.Media)
	}
}

func TestPostService_Create_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  model.CreatePostRequest
	}{
		{"missing title", model.CreatePostRequest{Body: "b"}},
		{"missing body", model.CreatePostRequest{Title: "t"}},
		{"blank title", model.CreatePostRequest{Title: "   ", Body: "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewPostService(newMockTables())
			if _, err := svc.Create(context.Background(), testAuthor, &tt.req, nil); !model.IsValidation(err) {
				t.Errorf("error = %v, want a ValidationError", err)
			}
		})
	}
}

func TestPostService_Create_TruncatesLongContent(t *testing.T) {
	svc := NewPostService(newMockTables())

	post, err := svc.Create(context.Background(), testAuthor, &model.CreatePostRequest{
		Title: strings.Repeat("t", model.MaxTitleLength+50),
		Body:  strings.Repeat("b", model.MaxBodyLength+50),
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(post.Title) != model.MaxTitleLength {
		t.Errorf("title length = %d", len(post.Title))
	}
	if len(post.Body) != model.MaxBodyLength {
		t.Errorf("body length = %d", len(post.Body))
	}
}

func TestPostService_Create_TruncatesOnRuneBoundary(t *testing.T) {
	svc := NewPostService(newMockTables())

	post, err := svc.Create(context.Background(), testAuthor, &model.CreatePostRequest{
		Title: strings.Repeat("é", model.MaxTitleLength+10),
		Body:  strings.Repeat("水", model.MaxBodyLength+10),
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !utf8.ValidString(post.Title) || !utf8.ValidString(post.Body) {
		t.Error("truncation produced invalid UTF-8")
	}
	if n := utf8.RuneCountInString(post.Title); n != model.MaxTitleLength {
		t.Errorf("title runes = %d, want %d", n, model.MaxTitleLength)
	}
	if n := utf8.RuneCountInString(post.Body); n != model.MaxBodyLength {
		t.Errorf("body runes = %d, want %d", n, model.MaxBodyLength)
	}
}

func TestPostService_Create_MediaLink(t *testing.T) {
	svc := NewPostService(newMockTables())
	ctx := context.Background()
	base := model.CreatePostRequest{Title: "t", Body: "b"}

	t.Run("valid link", func(t *testing.T) {
		req := base
		req.MediaLink = "https://example.com/clip.mp4"
		post, err := svc.Create(ctx, testAuthor, &req, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if post.Media == nil || post.Media.Type != model.MediaTypeLink || post.Media.URL != req.MediaLink {
			t.Errorf("media = %+v", post.Media)
		}
	})

	t.Run("invalid scheme", func(t *testing.T) {
		req := base
		req.MediaLink = "ftp://example.com/clip.mp4"
		if _, err := svc.Create(ctx, testAuthor, &req, nil); !errors.Is(err, model.ErrInvalidMediaLink) {
			t.Errorf("error = %v, want ErrInvalidMediaLink", err)
		}
	})

	t.Run("link and upload are mutually exclusive", func(t *testing.T) {
		req := base
		req.MediaLink = "https://example.com/clip.mp4"
		upload := &model.Media{Type: model.MediaTypeFile, URL: "/uploads/forum/x.png"}
		if _, err := svc.Create(ctx, testAuthor, &req, upload); !errors.Is(err, model.ErrMediaConflict) {
			t.Errorf("error = %v, want ErrMediaConflict", err)
		}
	})
}

func TestPostService_Create_RetriesOnceOnConflict(t *testing.T) {
	tables := newMockTables()
	svc := NewPostService(tables)

	conflicts := 1
	tables.storeFn = func(_ context.Context, table string, in any, _, _ string) (string, error) {
		if conflicts > 0 {
			conflicts--
			return "", model.ErrVersionConflict
		}
		return tables.put(table, in)
	}

	if _, err := svc.Create(context.Background(), testAuthor, &model.CreatePostRequest{Title: "t", Body: "b"}, nil); err != nil {
		t.Fatalf("create should survive one conflict: %v", err)
	}
	if tables.storeCalls != 2 {
		t.Errorf("store called %d times, want 2", tables.storeCalls)
	}
}

func TestPostService_List_NewestFirst(t *testing.T) {
	tables := newMockTables()
	now := time.Now().UTC()
	tables.seed(t, storage.TablePosts, []model.Post{
		{ID: "post_old", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "post_new", CreatedAt: now},
		{ID: "post_mid", CreatedAt: now.Add(-time.Hour)},
	})
	svc := NewPostService(tables)

	posts, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []string
	for _, p := range posts {
		got = append(got, p.ID)
	}
	want := []string{"post_new", "post_mid", "post_old"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
