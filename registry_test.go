package folio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testPosts() []Post {
	return []Post{
		{ID: 1, Slug: "first-post", Title: "First Post", Date: "2024-01-01", Tags: []string{"go", "web"}, Content: "**hi**"},
		{ID: 2, Slug: "second-post", Title: "Second Post", Date: "2024-02-01", Tags: []string{"go", "api"}},
		{ID: 3, Slug: "third-post", Title: "Third Post", Date: "2024-03-01", Tags: []string{"Rust"}},
	}
}

func writePostsFile(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "posts.json")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write posts file: %v", err)
	}
	return path
}

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry(testPosts())
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	got, err := r.FindBySlug("first-post")
	if err != nil {
		t.Fatalf("FindBySlug failed: %v", err)
	}
	if got.Title != "First Post" {
		t.Errorf("Title = %q, want %q", got.Title, "First Post")
	}
	if got.Link != "/blog/first-post" {
		t.Errorf("Link = %q, want %q", got.Link, "/blog/first-post")
	}
	if got.Content != "**hi**" {
		t.Errorf("Content = %q, want %q", got.Content, "**hi**")
	}
}

func TestNewRegistryRejectsDuplicateSlug(t *testing.T) {
	posts := testPosts()
	posts = append(posts, Post{ID: 4, Slug: "first-post", Title: "Clone", Date: "2024-04-01"})

	if _, err := NewRegistry(posts); err == nil {
		t.Fatal("expected duplicate slug error, got nil")
	}
}

func TestNewRegistryValidatesPosts(t *testing.T) {
	tests := []struct {
		name string
		post Post
	}{
		{"missing title", Post{Slug: "a-post", Date: "2024-01-01"}},
		{"missing date", Post{Slug: "a-post", Title: "A"}},
		{"bad date", Post{Slug: "a-post", Title: "A", Date: "Jan 1, 2024"}},
		{"uppercase slug", Post{Slug: "A-Post", Title: "A", Date: "2024-01-01"}},
		{"spaces in slug", Post{Slug: "a post", Title: "A", Date: "2024-01-01"}},
		{"trailing hyphen", Post{Slug: "a-post-", Title: "A", Date: "2024-01-01"}},
		{"negative views", Post{Slug: "a-post", Title: "A", Date: "2024-01-01", Views: -1}},
		{"negative comments", Post{Slug: "a-post", Title: "A", Date: "2024-01-01", Comments: -3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRegistry([]Post{tt.post}); err == nil {
				t.Errorf("expected validation error for %+v", tt.post)
			}
		})
	}
}

func TestFindBySlugNotFound(t *testing.T) {
	r, err := NewRegistry(testPosts())
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	_, err = r.FindBySlug("nonexistent")
	if !errors.Is(err, ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound, got %v", err)
	}
}

func TestFindBySlugIsExact(t *testing.T) {
	r, err := NewRegistry(testPosts())
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	// Lookup does not normalize: near matches miss.
	for _, slug := range []string{"First-Post", "first-post/", " first-post", "first_post"} {
		if _, err := r.FindBySlug(slug); !errors.Is(err, ErrPostNotFound) {
			t.Errorf("FindBySlug(%q) = %v, want ErrPostNotFound", slug, err)
		}
	}
}

func TestSlugsKeepSourceOrder(t *testing.T) {
	r, err := NewRegistry(testPosts())
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	want := []string{"first-post", "second-post", "third-post"}
	got := r.Slugs()
	if len(got) != len(want) {
		t.Fatalf("Slugs count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Slugs[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPostsByTag(t *testing.T) {
	r, err := NewRegistry(testPosts())
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	got := r.PostsByTag("go")
	if len(got) != 2 {
		t.Fatalf("PostsByTag(go) count = %d, want 2", len(got))
	}
	if got[0].Slug != "first-post" || got[1].Slug != "second-post" {
		t.Errorf("PostsByTag(go) order = [%s %s], want [first-post second-post]", got[0].Slug, got[1].Slug)
	}

	// Tag comparison is case-insensitive.
	if got := r.PostsByTag("rust"); len(got) != 1 {
		t.Errorf("PostsByTag(rust) count = %d, want 1", len(got))
	}
	if got := r.PostsByTag("GO"); len(got) != 2 {
		t.Errorf("PostsByTag(GO) count = %d, want 2", len(got))
	}
	if got := r.PostsByTag("nonexistent"); len(got) != 0 {
		t.Errorf("PostsByTag(nonexistent) count = %d, want 0", len(got))
	}
}

func TestTags(t *testing.T) {
	r, err := NewRegistry(testPosts())
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	want := []string{"api", "go", "rust", "web"}
	got := r.Tags()
	if len(got) != len(want) {
		t.Fatalf("Tags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tags[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRelated(t *testing.T) {
	posts := []Post{
		{ID: 1, Slug: "base", Title: "Base", Date: "2024-01-01", Tags: []string{"go", "web"}},
		{ID: 2, Slug: "both-tags", Title: "Both", Date: "2024-01-02", Tags: []string{"go", "web"}},
		{ID: 3, Slug: "one-tag", Title: "One", Date: "2024-01-03", Tags: []string{"go"}},
		{ID: 4, Slug: "unrelated", Title: "None", Date: "2024-01-04", Tags: []string{"rust"}},
	}
	r, err := NewRegistry(posts)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	got := r.Related("base", 5)
	if len(got) != 2 {
		t.Fatalf("Related count = %d, want 2: %v", len(got), got)
	}
	if got[0].Slug != "both-tags" {
		t.Errorf("Related[0] = %q, want both-tags (most shared tags)", got[0].Slug)
	}
	if got[1].Slug != "one-tag" {
		t.Errorf("Related[1] = %q, want one-tag", got[1].Slug)
	}

	if got := r.Related("base", 1); len(got) != 1 {
		t.Errorf("Related with limit 1 count = %d, want 1", len(got))
	}
	if got := r.Related("nonexistent", 5); got != nil {
		t.Errorf("Related for unknown slug = %v, want nil", got)
	}
}

func TestLoadRegistry(t *testing.T) {
	path := writePostsFile(t, `[
		{"id": 1, "slug": "hello-world", "title": "Hello World", "description": "First.", "category": "general", "readTime": "3 min read", "date": "2024-01-15", "views": 120, "comments": 4, "tags": ["go"], "content": "# Hello"}
	]`)

	r, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry failed: %v", err)
	}

	got, err := r.FindBySlug("hello-world")
	if err != nil {
		t.Fatalf("FindBySlug failed: %v", err)
	}
	if got.ReadTime != "3 min read" {
		t.Errorf("ReadTime = %q, want %q", got.ReadTime, "3 min read")
	}
	if got.Views != 120 {
		t.Errorf("Views = %d, want 120", got.Views)
	}
}

func TestLoadRegistryRejectsUnknownFields(t *testing.T) {
	path := writePostsFile(t, `[
		{"slug": "hello", "title": "Hello", "date": "2024-01-15", "wordCount": 900}
	]`)

	if _, err := LoadRegistry(path); err == nil {
		t.Fatal("expected unknown field error, got nil")
	}
}

func TestLoadRegistryMissingFile(t *testing.T) {
	if _, err := LoadRegistry(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}
