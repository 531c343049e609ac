package openai

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

// PageRenderer rasterizes the first page of a PDF so it can travel in a
// vision request. Images bypass it.
type PageRenderer interface {
	RenderFirstPage(path string) (pngPath string, cleanup func(), err error)
}

// Config for the OpenAI client.
type Config struct {
	APIKey      string        // if empty, falls back to env OPENAI_API_KEY
	BaseURL     string        // default https://api.openai.com/v1
	Model       string        // e.g., "gpt-4o-mini"
	Temperature float32       // 0..2
	Timeout     time.Duration // http client timeout
	MaxTokens   int           // completion cap
}

type Client struct {
	cfg      Config
	http     *http.Client
	renderer PageRenderer
	logger   *slog.Logger
}

func NewClient(cfg Config, renderer PageRenderer, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:      cfg,
		http:     &http.Client{Timeout: cfg.Timeout},
		renderer: renderer,
		logger:   logger,
	}
}
