package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public pollinations text-to-audio endpoint.
const DefaultBaseURL = "https://text.pollinations.ai"

const defaultTimeout = 90 * time.Second

// Client synthesizes speech through the pollinations openai-audio
// model. The endpoint takes the prompt in the path and the voice as a
// query parameter and answers with raw audio.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
}

// Synthesize fetches audio for text in the given voice.
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	// The upstream model treats the path as a prompt; the prefix makes
	// it read the text verbatim instead of answering it.
	prompt := `read it "` + text + `"`
	endpoint := fmt.Sprintf("%s/%s?model=openai-audio&voice=%s",
		c.baseURL, url.PathEscape(prompt), url.QueryEscape(voice))

	reqCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tts error %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	return io.ReadAll(resp.Body)
}
