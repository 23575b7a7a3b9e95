package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domain "github.com/ilcs-ai/contract-ai/internal/domain/risk"
)

// Client HTTP untuk inference server model risk classification yang sudah
// di-fine-tune (Indo-LegalBERT). Kontrak wire:
//
//	POST {base}/classify  {"text": "..."}  -> {"label": "High", "score": 0.93}
//	GET  {base}/info                       -> metadata model (id2label dst)
//
// Endpoint kosong berarti model tidak tersedia; semua pemanggil harus cek
// Available() dan memetakan kegagalan ke hasil Unknown.
type Config struct {
	Endpoint string
	Timeout  time.Duration // default 30s
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

func (c *Client) Available() bool { return c.cfg.Endpoint != "" }

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify satu string masuk, label + skor keluar, apa adanya dari model
func (c *Client) Classify(ctx context.Context, text string) (domain.Level, float64, error) {
	if !c.Available() {
		return domain.LevelUnknown, 0, fmt.Errorf("classifier endpoint not configured")
	}

	body, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return domain.LevelUnknown, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+"/classify", bytes.NewReader(body))
	if err != nil {
		return domain.LevelUnknown, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.LevelUnknown, 0, fmt.Errorf("classifier request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.LevelUnknown, 0, fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.LevelUnknown, 0, fmt.Errorf("decode classifier response: %w", err)
	}

	level := parseLevel(out.Label)
	if level == domain.LevelUnknown {
		return domain.LevelUnknown, 0, fmt.Errorf("classifier returned unknown label %q", out.Label)
	}
	if out.Score < 0 || out.Score > 1 {
		return domain.LevelUnknown, 0, fmt.Errorf("classifier returned score %f outside [0,1]", out.Score)
	}
	return level, out.Score, nil
}

// Info ambil metadata model dari inference server
func (c *Client) Info(ctx context.Context) (domain.ModelInfo, error) {
	if !c.Available() {
		return domain.ModelInfo{}, fmt.Errorf("classifier endpoint not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"/info", nil)
	if err != nil {
		return domain.ModelInfo{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.ModelInfo{}, fmt.Errorf("model info request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ModelInfo{}, fmt.Errorf("model info returned status %d", resp.StatusCode)
	}

	var info domain.ModelInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return domain.ModelInfo{}, fmt.Errorf("decode model info: %w", err)
	}
	return info, nil
}

func parseLevel(label string) domain.Level {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "low":
		return domain.LevelLow
	case "medium":
		return domain.LevelMedium
	case "high":
		return domain.LevelHigh
	default:
		return domain.LevelUnknown
	}
}
