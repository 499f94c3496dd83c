package folio

// Post is one blog entry's metadata as it appears in the posts data file,
// plus an optional inline body. The slug is the only lookup key; every other
// field is display data. Views and Comments are static counters from the
// data file, not live values.
type Post struct {
	ID          int      `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	ReadTime    string   `json:"readTime"`
	Date        string   `json:"date"`
	Views       int      `json:"views"`
	Comments    int      `json:"comments"`
	Tags        []string `json:"tags"`
	Content     string   `json:"content,omitempty"`
	ContentFile string   `json:"contentFile,omitempty"`

	// Link is the site-relative URL of the post, derived from the slug at
	// load time. Not part of the data file.
	Link string `json:"-"`
}

// Body is the outcome of resolving a post's content. Present is false when
// the post has no body, in which case templates render a "coming soon"
// placeholder.
type Body struct {
	Text    string
	Present bool
}

// PageMeta is the head metadata for one rendered page. The engine renders
// no <head> itself; SiteMeta and PostMeta build these for the user's layout
// shell to turn into title, canonical, and OpenGraph tags.
type PageMeta struct {
	Title       string
	Description string
	Canonical   string // absolute URL of the page, empty when unknown
	Type        string // OpenGraph type, "website" or "article"
	Published   string // publish date of article pages, empty otherwise
}
