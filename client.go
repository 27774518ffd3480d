package treelate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client calls a treelate server's translate endpoint. It satisfies
// TextTranslator, so a TreeTranslator works against a remote server the
// same way it works against an in-process Manager.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the server at baseURL (e.g.
// "http://localhost:8080"). A zero timeout defaults to 10 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type translateRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"targetLang"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// TranslateText posts (text, lang) to the server and returns the
// translated text. Transport failures return a retryable *ProviderError;
// a 2xx response without a translatedText field returns
// *InvalidResponseError.
func (c *Client) TranslateText(ctx context.Context, text, lang string) (string, error) {
	body, err := json.Marshal(translateRequest{Text: text, TargetLang: lang})
	if err != nil {
		return "", &TranslationError{Message: "encoding request", Cause: err}
	}

	endpoint := c.baseURL + "/translate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &TranslationError{Message: "building request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &ProviderError{Message: "translate request failed", Cause: err, Retryable: true}
	}
	defer resp.Body.Close()

	var decoded translateResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := decoded.Error
		if msg == "" {
			msg = resp.Status
		}
		return "", &ProviderError{
			Message:   fmt.Sprintf("server returned %d: %s", resp.StatusCode, msg),
			Retryable: resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
		}
	}

	if decodeErr != nil {
		return "", &InvalidResponseError{Endpoint: endpoint, Detail: fmt.Sprintf("malformed body: %v", decodeErr)}
	}
	if decoded.TranslatedText == "" {
		return "", &InvalidResponseError{Endpoint: endpoint, Detail: "missing translatedText field"}
	}
	return decoded.TranslatedText, nil
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Verify Client implements TextTranslator
var _ TextTranslator = (*Client)(nil)
