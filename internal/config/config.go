package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	// file | local | github
	StorageBackend string

	DataDir   string
	UploadDir string

	GitHubOwner    string
	GitHubRepo     string
	GitHubBranch   string
	GitHubToken    string
	GitHubDataDir  string
	GitHubMediaDir string

	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3PublicURL       string

	LoginCredentials map[string]string
	LoginRedirectURL string
	AdminJWTSecret   string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	serverPort := os.Getenv("PORT")
	if serverPort == "" {
		serverPort = "3000"
	}

	backend := strings.ToLower(os.Getenv("STORAGE_BACKEND"))
	if backend == "" {
		backend = "file"
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	redirectURL := os.Getenv("LOGIN_REDIRECT_URL")
	if redirectURL == "" {
		redirectURL = "/admin"
	}

	return &Config{
		ServerPort: serverPort,

		StorageBackend: backend,

		DataDir:   dataDir,
		UploadDir: uploadDir,

		GitHubOwner:    os.Getenv("GITHUB_OWNER"),
		GitHubRepo:     os.Getenv("GITHUB_REPO"),
		GitHubBranch:   os.Getenv("GITHUB_BRANCH"),
		GitHubToken:    os.Getenv("GITHUB_TOKEN"),
		GitHubDataDir:  os.Getenv("GITHUB_DATA_DIR"),
		GitHubMediaDir: os.Getenv("GITHUB_MEDIA_DIR"),

		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3BucketName:      os.Getenv("S3_BUCKET_NAME"),
		S3PublicURL:       os.Getenv("S3_PUBLIC_URL"),

		LoginCredentials: parseCredentials(os.Getenv("LOGIN_CREDENTIALS")),
		LoginRedirectURL: redirectURL,
		AdminJWTSecret:   os.Getenv("ADMIN_JWT_SECRET"),
	}, nil
}

// parseCredentials splits "user:secret,user2:$2a$..." pairs. Secrets
// may contain colons; only the first one separates the username.
func parseCredentials(raw string) map[string]string {
	creds := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		user, secret, ok := strings.Cut(pair, ":")
		if !ok || user == "" || secret == "" {
			log.Printf("Skipping malformed LOGIN_CREDENTIALS entry %q", pair)
			continue
		}
		creds[strings.TrimSpace(user)] = secret
	}
	return creds
}
