// Package markdown converts the restricted Markdown dialect used by post
// bodies into HTML fragments. Rendering is a pure function of the input
// string: no options, no state, no errors. The dialect covers fenced code
// blocks, inline code, three heading levels, bold, unordered lists, and
// paragraphs; anything else (including raw HTML) passes through untouched,
// since post bodies are author-controlled.
package markdown

import (
	"context"
	"html"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// DefaultLanguage is the language tag applied to fenced code blocks that do
// not declare one.
const DefaultLanguage = "typescript"

var (
	reFence      = regexp.MustCompile("(?s)```(\\w*)\\n(.*?)```")
	reInlineCode = regexp.MustCompile("`([^`]+)`")
	reHeading3   = regexp.MustCompile(`(?m)^### (.*)$`)
	reHeading2   = regexp.MustCompile(`(?m)^## (.*)$`)
	reHeading1   = regexp.MustCompile(`(?m)^# (.*)$`)
	reBold       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reListItem   = regexp.MustCompile(`(?m)^- (.*)$`)
	reListRun    = regexp.MustCompile(`(?:<li>.*</li>\n?)+`)
	reBlockTag   = regexp.MustCompile(`^<(?:h[1-3]|ul|pre|div)`)
	reCodeMark   = regexp.MustCompile(`\x00IC(\d+)\x00`)
)

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, Render(md))
		return err
	})
}

// Render converts md to an HTML fragment. The passes run in a fixed order;
// each later pass relies on the earlier ones having already consumed their
// syntax. Code content is extracted into placeholders first (and restored
// last) so that heading, bold, and list passes never rewrite text inside
// code.
func Render(md string) string {
	// Pass 1: fenced code blocks.
	var fenced []string
	out := reFence.ReplaceAllStringFunc(md, func(m string) string {
		match := reFence.FindStringSubmatch(m)
		lang := match[1]
		if lang == "" {
			lang = DefaultLanguage
		}
		block := "<pre><code class=\"language-" + lang + "\">" + html.EscapeString(match[2]) + "</code></pre>"
		marker := "\x00CB" + strconv.Itoa(len(fenced)) + "\x00"
		fenced = append(fenced, block)
		return marker
	})

	// Pass 2: inline code. The raw inner text is kept alongside the HTML so
	// heading ids can use it without markup.
	var inlineHTML, inlineRaw []string
	out = reInlineCode.ReplaceAllStringFunc(out, func(m string) string {
		match := reInlineCode.FindStringSubmatch(m)
		marker := "\x00IC" + strconv.Itoa(len(inlineHTML)) + "\x00"
		inlineHTML = append(inlineHTML, "<code>"+html.EscapeString(match[1])+"</code>")
		inlineRaw = append(inlineRaw, match[1])
		return marker
	})

	// Pass 3: headings, most specific marker first so ### is not consumed
	// by the ## or # patterns.
	out = replaceHeadings(out, reHeading3, "h3", true, inlineRaw)
	out = replaceHeadings(out, reHeading2, "h2", true, inlineRaw)
	out = replaceHeadings(out, reHeading1, "h1", false, inlineRaw)

	// Pass 4: bold. Applied only outside HTML tags so attribute values
	// (heading ids in particular) are never rewritten.
	out = applyOutsideTags(out, func(seg string) string {
		return reBold.ReplaceAllString(seg, "<strong>$1</strong>")
	})

	// Pass 5: unordered lists. Each "- " line becomes a <li>, then every run
	// of adjacent <li> lines is wrapped in a single <ul>.
	out = reListItem.ReplaceAllString(out, "<li>$1</li>")
	out = reListRun.ReplaceAllStringFunc(out, func(run string) string {
		return "<ul>" + strings.TrimRight(run, "\n") + "</ul>"
	})

	// Pass 6: paragraphs. Blank-line-separated blocks that are not already
	// block-level are wrapped in a <div>; empty blocks are dropped. A fenced
	// code marker counts as block-level so a fence containing blank lines is
	// neither split nor wrapped.
	var blocks []string
	for _, block := range strings.Split(out, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if reBlockTag.MatchString(block) || strings.HasPrefix(block, "\x00CB") {
			blocks = append(blocks, block)
			continue
		}
		blocks = append(blocks, "<div>"+block+"</div>")
	}
	out = strings.Join(blocks, "\n")

	// Restore code content last so no formatting or wrapping pass ever sees it.
	for i, block := range fenced {
		out = strings.Replace(out, "\x00CB"+strconv.Itoa(i)+"\x00", block, 1)
	}
	for i, code := range inlineHTML {
		out = strings.Replace(out, "\x00IC"+strconv.Itoa(i)+"\x00", code, 1)
	}
	return out
}

// replaceHeadings rewrites every line matched by re into the given heading
// element. withID attaches an id equal to the raw heading text; inline-code
// markers are resolved to their code text first so ids stay plain.
func replaceHeadings(s string, re *regexp.Regexp, tag string, withID bool, inlineRaw []string) string {
	return re.ReplaceAllStringFunc(s, func(m string) string {
		text := re.FindStringSubmatch(m)[1]
		if !withID {
			return "<" + tag + ">" + text + "</" + tag + ">"
		}
		return "<" + tag + " id=\"" + headingID(text, inlineRaw) + "\">" + text + "</" + tag + ">"
	})
}

// headingID derives the id attribute value for a heading: the raw heading
// text, HTML-escaped for attribute safety. Duplicate headings produce
// duplicate ids; callers own their heading text.
func headingID(text string, inlineRaw []string) string {
	text = reCodeMark.ReplaceAllStringFunc(text, func(m string) string {
		idx, err := strconv.Atoi(reCodeMark.FindStringSubmatch(m)[1])
		if err != nil || idx >= len(inlineRaw) {
			return m
		}
		return inlineRaw[idx]
	})
	return html.EscapeString(text)
}

// applyOutsideTags applies fn only to text segments outside HTML tags, so
// that formatting regexes never touch attribute values.
func applyOutsideTags(s string, fn func(string) string) string {
	var buf strings.Builder
	for len(s) > 0 {
		lt := strings.Index(s, "<")
		if lt < 0 {
			buf.WriteString(fn(s))
			break
		}
		if lt > 0 {
			buf.WriteString(fn(s[:lt]))
		}
		gt := strings.Index(s[lt:], ">")
		if gt < 0 {
			buf.WriteString(s[lt:])
			break
		}
		buf.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return buf.String()
}
