package folio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrContentNotFound is returned by a Source when the named content file
// does not exist.
var ErrContentNotFound = errors.New("content not found")

// Content bodies larger than this are truncated at the decoder. Post bodies
// are hand-written markdown; anything bigger is a misconfigured endpoint.
const maxContentBytes = 1 << 20

// Source resolves a post's contentFile reference to markdown text.
type Source interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// DirSource serves content files from a directory on disk.
type DirSource struct {
	Dir string
}

// Resolve reads the named file from the source directory. Names that would
// escape the directory are rejected.
func (s DirSource) Resolve(ctx context.Context, name string) (string, error) {
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("content name %q escapes the content directory", name)
	}
	b, err := os.ReadFile(filepath.Join(s.Dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%s: %w", name, ErrContentNotFound)
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// HTTPSource fetches content from an endpoint serving JSON documents shaped
// {"content": "..."}. The content name is appended to BaseURL as a path
// element.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// Resolve fetches the named document. A 404 maps to ErrContentNotFound so
// callers can tell missing content from a broken endpoint.
func (s HTTPSource) Resolve(ctx context.Context, name string) (string, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	endpoint := strings.TrimRight(s.BaseURL, "/") + "/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%s: %w", name, ErrContentNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: unexpected status %d", name, resp.StatusCode)
	}

	var doc struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxContentBytes)).Decode(&doc); err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}
	return doc.Content, nil
}

// Loader resolves the body of a post. A contentFile reference takes
// precedence and goes through the source and cache; otherwise inline
// content is used as-is; a post with neither is served as absent, which
// the post view shows as a coming soon state.
type Loader struct {
	source Source
	cache  *contentCache
	log    *zap.Logger
}

// NewLoader builds a Loader over source. Resolved bodies are cached per slug
// for ttl; ttl <= 0 disables the cache.
func NewLoader(source Source, ttl time.Duration, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{source: source, cache: newContentCache(ttl), log: log}
}

// Resolve returns the body for post. Source failures are logged and degrade
// to an absent body rather than failing the page. A canceled context is the
// one case that returns an error: it means the reader is gone and the
// result must be discarded, not rendered or cached.
func (l *Loader) Resolve(ctx context.Context, post Post) (Body, error) {
	if post.ContentFile == "" {
		if post.Content != "" {
			contentResolvesTotal.WithLabelValues("inline").Inc()
			return Body{Text: post.Content, Present: true}, nil
		}
		contentResolvesTotal.WithLabelValues("absent").Inc()
		return Body{}, nil
	}
	if body, ok := l.cache.get(post.Slug); ok {
		contentResolvesTotal.WithLabelValues("cached").Inc()
		return body, nil
	}
	if l.source == nil {
		contentResolvesTotal.WithLabelValues("error").Inc()
		l.log.Warn("post references a content file but no source is configured",
			zap.String("slug", post.Slug),
			zap.String("contentFile", post.ContentFile))
		return Body{}, nil
	}

	text, err := l.source.Resolve(ctx, post.ContentFile)
	if err != nil {
		if ctx.Err() != nil {
			contentResolvesTotal.WithLabelValues("canceled").Inc()
			return Body{}, ctx.Err()
		}
		contentResolvesTotal.WithLabelValues("error").Inc()
		l.log.Warn("content fetch failed, serving absent body",
			zap.String("slug", post.Slug),
			zap.String("contentFile", post.ContentFile),
			zap.Error(err))
		return Body{}, nil
	}

	contentResolvesTotal.WithLabelValues("fetched").Inc()
	body := Body{Text: text, Present: true}
	l.cache.put(post.Slug, body)
	return body, nil
}

// Invalidate clears cached bodies so the next view of each post refetches.
func (l *Loader) Invalidate() {
	l.cache.invalidate()
}
