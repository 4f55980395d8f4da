package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxPostResponseBytes = 1 << 20

// HTTPPosts looks posts up through a REST endpoint. The URL template must
// contain an {id} placeholder, e.g. https://blog.example/wp-json/wp/v2/posts/{id}.
// The response is expected to carry title.rendered and link, which is what a
// WordPress posts endpoint returns.
type HTTPPosts struct {
	template string
	client   *http.Client
}

func NewHTTPPosts(template string, client *http.Client) (*HTTPPosts, error) {
	if !strings.Contains(template, "{id}") {
		return nil, errors.New("post lookup url must contain {id}")
	}
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &HTTPPosts{template: template, client: client}, nil
}

type postResponse struct {
	Title struct {
		Rendered string `json:"rendered"`
	} `json:"title"`
	Link string `json:"link"`
}

func (h *HTTPPosts) Lookup(ctx context.Context, id string) (PostContext, error) {
	post := PostContext{ID: id}
	target := strings.ReplaceAll(h.template, "{id}", url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return post, fmt.Errorf("build post request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return post, fmt.Errorf("fetch post %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return post, fmt.Errorf("fetch post %s: status %d", id, resp.StatusCode)
	}

	var body postResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPostResponseBytes)).Decode(&body); err != nil {
		return post, fmt.Errorf("decode post %s: %w", id, err)
	}
	post.Title = body.Title.Rendered
	post.URL = body.Link
	return post, nil
}
