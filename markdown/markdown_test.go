package markdown

import (
	"context"
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "h1 without id",
			in:   "# Title",
			want: "<h1>Title</h1>",
		},
		{
			name: "h2 with raw text id",
			in:   "## Setup",
			want: `<h2 id="Setup">Setup</h2>`,
		},
		{
			name: "h3 with raw text id",
			in:   "### Edge Cases",
			want: `<h3 id="Edge Cases">Edge Cases</h3>`,
		},
		{
			name: "heading id is attribute escaped",
			in:   "## Q&A",
			want: `<h2 id="Q&amp;A">Q&A</h2>`,
		},
		{
			name: "bold paragraph gets div wrapper",
			in:   "**hi**",
			want: "<div><strong>hi</strong></div>",
		},
		{
			name: "list run becomes single ul",
			in:   "- a\n- b\n- c",
			want: "<ul><li>a</li>\n<li>b</li>\n<li>c</li></ul>",
		},
		{
			name: "bold inside list item",
			in:   "- **a**\n- b",
			want: "<ul><li><strong>a</strong></li>\n<li>b</li></ul>",
		},
		{
			name: "paragraphs split on blank lines",
			in:   "first\n\nsecond",
			want: "<div>first</div>\n<div>second</div>",
		},
		{
			name: "multi line paragraph stays one block",
			in:   "line one\nline two",
			want: "<div>line one\nline two</div>",
		},
		{
			name: "raw block html passes through unwrapped",
			in:   `<div class="note">hand written</div>`,
			want: `<div class="note">hand written</div>`,
		},
		{
			name: "inline code is escaped",
			in:   "use `a < b` here",
			want: "<div>use <code>a &lt; b</code> here</div>",
		},
		{
			name: "inline code in heading keeps id plain",
			in:   "## Using `go` daily",
			want: `<h2 id="Using go daily">Using <code>go</code> daily</h2>`,
		},
		{
			name: "fence without language defaults to typescript",
			in:   "```\nconst x = 1\n```",
			want: "<pre><code class=\"language-typescript\">const x = 1\n</code></pre>",
		},
		{
			name: "fence with language tag",
			in:   "```go\nfmt.Println(1)\n```",
			want: "<pre><code class=\"language-go\">fmt.Println(1)\n</code></pre>",
		},
		{
			name: "fence with blank line stays one block",
			in:   "```\na\n\nb\n```",
			want: "<pre><code class=\"language-typescript\">a\n\nb\n</code></pre>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.in); got != tt.want {
				t.Errorf("Render(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderEscapesFencedHTML(t *testing.T) {
	out := Render("```\n<script>alert(1)</script>\n```")
	if strings.Contains(out, "<script>") {
		t.Fatalf("script tag survived escaping: %q", out)
	}
	if !strings.Contains(out, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Errorf("escaped script missing from output: %q", out)
	}
}

func TestRenderLeavesCodeContentAlone(t *testing.T) {
	out := Render("```\n# not a heading\n- not a list\n**not bold**\n```")
	for _, banned := range []string{"<h1", "<li>", "<strong>"} {
		if strings.Contains(out, banned) {
			t.Errorf("formatting pass reached into code block, found %s: %q", banned, out)
		}
	}
	if !strings.Contains(out, "# not a heading") {
		t.Errorf("code content rewritten: %q", out)
	}
}

func TestRenderSingleListFromRun(t *testing.T) {
	out := Render("- a\n- b\n- c")
	if got := strings.Count(out, "<ul>"); got != 1 {
		t.Errorf("got %d <ul> elements, want 1", got)
	}
	if got := strings.Count(out, "<li>"); got != 3 {
		t.Errorf("got %d <li> elements, want 3", got)
	}
	if strings.Index(out, "<li>a</li>") > strings.Index(out, "<li>b</li>") {
		t.Errorf("list items out of source order: %q", out)
	}
}

func TestRenderDocument(t *testing.T) {
	in := strings.Join([]string{
		"# Post",
		"",
		"An intro with `code` and **weight**.",
		"",
		"## Setup",
		"",
		"```bash",
		"make run",
		"```",
		"",
		"- one",
		"- two",
	}, "\n")
	out := Render(in)

	ordered := []string{
		"<h1>Post</h1>",
		"<div>An intro with <code>code</code> and <strong>weight</strong>.</div>",
		`<h2 id="Setup">Setup</h2>`,
		"<pre><code class=\"language-bash\">make run\n</code></pre>",
		"<ul><li>one</li>\n<li>two</li></ul>",
	}
	last := -1
	for _, part := range ordered {
		idx := strings.Index(out, part)
		if idx < 0 {
			t.Fatalf("output missing %q:\n%s", part, out)
		}
		if idx < last {
			t.Fatalf("output out of order at %q:\n%s", part, out)
		}
		last = idx
	}
}

func TestRenderUnclosedFence(t *testing.T) {
	out := Render("```go\nno closing fence")
	if strings.Contains(out, "<pre>") {
		t.Errorf("unclosed fence rendered as code block: %q", out)
	}
	if !strings.Contains(out, "```go") {
		t.Errorf("unclosed fence text lost: %q", out)
	}
}

func TestMarkdownComponent(t *testing.T) {
	var sb strings.Builder
	if err := Markdown("**hi**").Render(context.Background(), &sb); err != nil {
		t.Fatalf("render: %v", err)
	}
	if got, want := sb.String(), "<div><strong>hi</strong></div>"; got != want {
		t.Errorf("component output = %q, want %q", got, want)
	}
}
