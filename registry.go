package folio

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrPostNotFound is returned by FindBySlug when no post matches the slug.
var ErrPostNotFound = errors.New("post not found")

var reSlug = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Validate checks the fields a post must carry before it can be served.
func (p Post) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Slug, validation.Required, validation.Match(reSlug).
			Error("must be lowercase words separated by single hyphens")),
		validation.Field(&p.Title, validation.Required),
		validation.Field(&p.Date, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&p.Views, validation.Min(0)),
		validation.Field(&p.Comments, validation.Min(0)),
	)
}

// Registry holds the post catalog loaded from the posts data file. It is
// immutable after construction, so lookups need no locking.
type Registry struct {
	posts  []Post
	bySlug map[string]int
}

// NewRegistry builds a registry from posts, keeping them in the given order.
// Every post is validated and duplicate slugs are rejected, so a bad data
// file fails at startup instead of serving broken pages.
func NewRegistry(posts []Post) (*Registry, error) {
	r := &Registry{
		posts:  make([]Post, len(posts)),
		bySlug: make(map[string]int, len(posts)),
	}
	for i, p := range posts {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("post %q: %w", p.Slug, err)
		}
		if _, ok := r.bySlug[p.Slug]; ok {
			return nil, fmt.Errorf("duplicate slug %q", p.Slug)
		}
		p.Link = "/blog/" + p.Slug
		r.posts[i] = p
		r.bySlug[p.Slug] = i
	}
	return r, nil
}

// LoadRegistry reads a JSON array of posts from path. Unknown fields are
// rejected so typos in the data file surface at startup.
func LoadRegistry(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	var posts []Post
	if err := dec.Decode(&posts); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return NewRegistry(posts)
}

// FindBySlug returns the post whose slug exactly equals slug. There is no
// normalization: "My-Post" and "my-post" are different keys.
func (r *Registry) FindBySlug(slug string) (Post, error) {
	i, ok := r.bySlug[slug]
	if !ok {
		return Post{}, fmt.Errorf("%q: %w", slug, ErrPostNotFound)
	}
	return r.posts[i], nil
}

// Slugs returns every slug in data file order.
func (r *Registry) Slugs() []string {
	slugs := make([]string, len(r.posts))
	for i, p := range r.posts {
		slugs[i] = p.Slug
	}
	return slugs
}

// Posts returns all posts in data file order.
func (r *Registry) Posts() []Post {
	posts := make([]Post, len(r.posts))
	copy(posts, r.posts)
	return posts
}

// PostsByTag returns posts carrying the tag, compared case-insensitively,
// in data file order.
func (r *Registry) PostsByTag(tag string) []Post {
	tag = strings.ToLower(strings.TrimSpace(tag))
	var posts []Post
	for _, p := range r.posts {
		for _, t := range p.Tags {
			if strings.ToLower(t) == tag {
				posts = append(posts, p)
				break
			}
		}
	}
	return posts
}

// Tags returns a sorted, deduplicated, lowercased slice of every tag in use.
func (r *Registry) Tags() []string {
	set := make(map[string]struct{})
	for _, p := range r.posts {
		for _, t := range p.Tags {
			set[strings.ToLower(t)] = struct{}{}
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Related returns up to limit posts sharing at least one tag with the post
// at slug, ordered by shared tag count and then data file order. The post
// itself is excluded.
func (r *Registry) Related(slug string, limit int) []Post {
	i, ok := r.bySlug[slug]
	if !ok || limit <= 0 {
		return nil
	}
	have := make(map[string]struct{}, len(r.posts[i].Tags))
	for _, t := range r.posts[i].Tags {
		have[strings.ToLower(t)] = struct{}{}
	}

	type scored struct {
		idx   int
		count int
	}
	var candidates []scored
	for j, p := range r.posts {
		if j == i {
			continue
		}
		count := 0
		for _, t := range p.Tags {
			if _, ok := have[strings.ToLower(t)]; ok {
				count++
			}
		}
		if count > 0 {
			candidates = append(candidates, scored{idx: j, count: count})
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].count > candidates[b].count
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	posts := make([]Post, len(candidates))
	for k, c := range candidates {
		posts[k] = r.posts[c.idx]
	}
	return posts
}
