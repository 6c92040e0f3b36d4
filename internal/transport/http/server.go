package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"path/filepath"
	"time"

	"extynct-community/internal/blob"
	"extynct-community/internal/config"
	"extynct-community/internal/handler"
	"extynct-community/internal/kvstore"
	"extynct-community/internal/model"
	"extynct-community/internal/repoclient"
	"extynct-community/internal/service"
	"extynct-community/internal/storage"
)

func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Pick the storage backend
	tables, sink, uploadDir, err := buildBackend(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up storage: %w", err)
	}

	// 3. Wire services and handlers
	accountService := service.NewAccountService(tables, nil)
	sessionService := service.NewSessionService(tables, accountService)
	postService := service.NewPostService(tables)
	mediaService := service.NewMediaService(sink)

	router := NewRouter(RouterConfig{
		AccountHandler: handler.NewAccountHandler(accountService, sessionService),
		AuthHandler:    handler.NewAuthHandler(accountService, sessionService),
		PostHandler:    handler.NewPostHandler(postService, mediaService),
		LoginHandler:   handler.NewLoginHandler(cfg.LoginCredentials, cfg.AdminJWTSecret, cfg.LoginRedirectURL),
		Sessions:       sessionService,
		UploadDir:      uploadDir,
	})

	// 4. Serve
	server := &stdhttp.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("Starting server on :%s (backend: %s)", cfg.ServerPort, cfg.StorageBackend)
	return server.ListenAndServe()
}

// buildBackend maps STORAGE_BACKEND to a table store and media sink.
func buildBackend(cfg *config.Config) (storage.TableStore, blob.Sink, string, error) {
	switch cfg.StorageBackend {
	case "file":
		tables, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, "", err
		}
		sink, uploadDir, err := buildMediaSink(cfg)
		if err != nil {
			return nil, nil, "", err
		}
		return tables, sink, uploadDir, nil

	case "local":
		kv := kvstore.Open(filepath.Join(cfg.DataDir, "kv"))
		if !kv.Available() {
			log.Println("Local key-value dir is not writable; running from the in-memory mirror")
		}
		sink, uploadDir, err := buildMediaSink(cfg)
		if err != nil {
			return nil, nil, "", err
		}
		return storage.NewLocalStore(kv), sink, uploadDir, nil

	case "github":
		// Environment settings are defaults; overrides saved through
		// the repo config store take precedence across restarts.
		kv := kvstore.Open(filepath.Join(cfg.DataDir, "kv"))
		repoCfg := service.NewRepoConfigStore(kv, model.RepoConfig{
			Owner:    cfg.GitHubOwner,
			Repo:     cfg.GitHubRepo,
			Branch:   cfg.GitHubBranch,
			Token:    cfg.GitHubToken,
			DataDir:  cfg.GitHubDataDir,
			MediaDir: cfg.GitHubMediaDir,
		})
		client, err := repoclient.New(repoCfg.Get())
		if err != nil {
			return nil, nil, "", err
		}
		store := storage.NewGitHubStore(client)
		return store, &repoSink{client: store.Client()}, "", nil

	default:
		return nil, nil, "", fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// buildMediaSink prefers S3 when it is fully configured, local disk
// otherwise. The returned dir is non-empty only for the disk sink.
func buildMediaSink(cfg *config.Config) (blob.Sink, string, error) {
	s3cfg := blob.S3Config{
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Bucket:          cfg.S3BucketName,
		PublicURL:       cfg.S3PublicURL,
	}
	if s3cfg.Configured() {
		sink, err := blob.NewS3Store(context.Background(), s3cfg)
		if err != nil {
			return nil, "", err
		}
		return sink, "", nil
	}

	disk := blob.NewDiskStore(cfg.UploadDir, "/uploads")
	return disk, disk.Dir(), nil
}

// repoSink adapts the repository contents API to the media sink
// interface so the github backend stores attachments in-repo.
type repoSink struct {
	client *repoclient.Client
}

func (s *repoSink) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	media, err := s.client.UploadMedia(ctx, name, contentType, data)
	if err != nil {
		return "", err
	}
	return media.URL, nil
}
