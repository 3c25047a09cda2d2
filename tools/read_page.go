package tools

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

const maxPageRunes = 20_000

// ReadPageTool fetches a URL and returns its readable text.
type ReadPageTool struct {
	client *webClient
}

func (t *ReadPageTool) Spec() Spec {
	return Spec{
		Name:        "read_page",
		Description: "Fetch a web page and return its readable text",
		Params: []Param{
			{Name: "url", Type: TypeString, Description: "http or https URL."},
		},
	}
}

func (t *ReadPageTool) Execute(ctx context.Context, args Args) (string, error) {
	raw, err := args.RequireString("url")
	if err != nil {
		return "", err
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}

	body, contentType, err := t.client.get(ctx, u.String())
	if err != nil {
		return "", err
	}

	text := string(body)
	if contentType == "" || strings.Contains(contentType, "html") {
		if text, err = htmlToText(body); err != nil {
			return "", err
		}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return emptyOutput, nil
	}
	if r := []rune(text); len(r) > maxPageRunes {
		text = string(r[:maxPageRunes]) + "\n-- truncated --"
	}
	return text, nil
}

var skipElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true, "svg": true, "head": true,
}

var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"pre": true, "blockquote": true, "header": true, "footer": true, "table": true, "ul": true, "ol": true,
}

// htmlToText drops non-content elements and puts block elements on their own
// lines. Runs of blank lines collapse to one.
func htmlToText(body []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if skipElements[n.Data] {
				return
			}
		case html.TextNode:
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] {
			b.WriteByte('\n')
		}
	}
	walk(doc)

	var lines []string
	blank := false
	for _, line := range strings.Split(b.String(), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(lines) > 0 {
				lines = append(lines, "")
			}
			blank = true
			continue
		}
		blank = false
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}
