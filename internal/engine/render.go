package engine

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// Link is an anchor found in a rendered page.
type Link struct {
	Text string
	URL  string
}

// Document is a page flattened for terminal display.
type Document struct {
	Title string
	Text  string
	Links []Link
}

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "footer": true, "form": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"li": true, "main": true, "nav": true, "ol": true, "p": true, "pre": true,
	"section": true, "table": true, "tr": true, "ul": true,
}

// sanitizer strips scripts, styles, event handlers and anything else that is
// not plain document structure.
var sanitizer = bluemonday.UGCPolicy()

// Render converts a response body into a Document. base resolves relative links.
func Render(body []byte, contentType string, base *url.URL) (Document, error) {
	mediaType := detectMediaType(body, contentType)

	switch {
	case mediaType == "text/html" || mediaType == "application/xhtml+xml":
		return renderHTML(body, base)
	case strings.HasPrefix(mediaType, "text/"):
		return Document{Text: strings.TrimSpace(string(body))}, nil
	default:
		return Document{
			Text: fmt.Sprintf("(%s content, %d bytes, not displayable)", mediaType, len(body)),
		}, nil
	}
}

func detectMediaType(body []byte, contentType string) string {
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil {
			return mt
		}
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(body))
	return mt
}

func renderHTML(body []byte, base *url.URL) (Document, error) {
	raw, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Document{}, fmt.Errorf("failed to parse html: %w", err)
	}
	title := collapseSpace(raw.Find("title").First().Text())

	content, err := raw.Find("body").Html()
	if err != nil || strings.TrimSpace(content) == "" {
		content = string(body)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sanitizer.Sanitize(content)))
	if err != nil {
		return Document{}, fmt.Errorf("failed to parse sanitized html: %w", err)
	}

	var b strings.Builder
	walk(doc.Selection, &b)

	var links []Link
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		target, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		if base != nil {
			target = base.ResolveReference(target)
		}
		if target.Scheme != "http" && target.Scheme != "https" {
			return
		}
		text := collapseSpace(s.Text())
		if text == "" {
			text = target.String()
		}
		links = append(links, Link{Text: text, URL: target.String()})
	})

	return Document{
		Title: title,
		Text:  tidyLines(b.String()),
		Links: links,
	}, nil
}

// walk appends the text of s, breaking lines around block elements.
func walk(s *goquery.Selection, b *strings.Builder) {
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		name := goquery.NodeName(child)
		switch name {
		case "#text":
			b.WriteString(collapseSpace(child.Text()))
			b.WriteString(" ")
		case "pre":
			b.WriteString("\n")
			b.WriteString(child.Text())
			b.WriteString("\n")
		default:
			block := blockElements[name]
			if block {
				b.WriteString("\n")
			}
			if name == "li" {
				b.WriteString("• ")
			}
			walk(child, b)
			if block {
				b.WriteString("\n")
			}
		}
	})
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// tidyLines trims each line and collapses runs of blank lines.
func tidyLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
