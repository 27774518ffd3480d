package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/ZaguanLabs/treelate"
)

// HTTPProvider calls a LibreTranslate-compatible translation endpoint.
// Each call sends one request for one piece of text; there is no
// batching at this layer.
type HTTPProvider struct {
	url    string
	apiKey string
	client *http.Client
	logger *log.Logger
}

// HTTPConfig holds configuration for the HTTP provider.
type HTTPConfig struct {
	URL        string        // Full endpoint URL (e.g., "https://libretranslate.com/translate")
	APIKey     string        // API credential, sent as api_key (optional)
	Timeout    time.Duration // Request timeout (default: 15s)
	HTTPClient *http.Client  // Custom client (optional, overrides Timeout)
}

// NewHTTPProvider creates a new HTTP provider.
func NewHTTPProvider(cfg HTTPConfig) *HTTPProvider {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPProvider{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: client,
		logger: log.New(os.Stderr, "[provider] ", log.LstdFlags),
	}
}

type httpRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type httpResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// Translate sends one translation request. Network-level failures are
// logged and still fail the call; a well-formed response without a
// translatedText field fails with *InvalidResponseError.
func (p *HTTPProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	payload, err := json.Marshal(httpRequest{
		Q:      text,
		Source: sourceLang,
		Target: targetLang,
		Format: "text",
		APIKey: p.apiKey,
	})
	if err != nil {
		return "", &treelate.TranslationError{Message: "encoding request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return "", &treelate.TranslationError{Message: "building request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", treelate.UserAgent())

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Printf("translate request to %s failed: %v", p.url, err)
		return "", &treelate.ProviderError{Message: "translation request failed", Cause: err, Retryable: true}
	}
	defer resp.Body.Close()

	var decoded httpResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := decoded.Error
		if msg == "" {
			msg = resp.Status
		}
		return "", &treelate.ProviderError{
			Message:   fmt.Sprintf("translation API returned %d: %s", resp.StatusCode, msg),
			Retryable: resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
		}
	}

	if decodeErr != nil {
		return "", &treelate.InvalidResponseError{Endpoint: p.url, Detail: fmt.Sprintf("malformed body: %v", decodeErr)}
	}
	if decoded.TranslatedText == "" {
		return "", &treelate.InvalidResponseError{Endpoint: p.url, Detail: "missing translatedText field"}
	}
	return decoded.TranslatedText, nil
}

// Verify HTTPProvider implements Provider
var _ Provider = (*HTTPProvider)(nil)
