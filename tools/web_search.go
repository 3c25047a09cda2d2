package tools

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

const (
	DefaultSearchURL  = "https://html.duckduckgo.com/html/"
	defaultMaxResults = 5
)

// WebSearchTool queries an HTML search endpoint in the DuckDuckGo result
// layout and lists the hits.
type WebSearchTool struct {
	client   *webClient
	Endpoint string
}

func (t *WebSearchTool) Spec() Spec {
	return Spec{
		Name:        "web_search",
		Description: "Search the web; returns titles, URLs and snippets",
		Params: []Param{
			{Name: "query", Type: TypeString, Description: "Search terms."},
			{Name: "max_results", Type: TypeNumber, Optional: true, Description: "Maximum results (default 5)."},
		},
	}
}

type searchResult struct {
	Title   string
	URL     string
	Snippet string
}

func (t *WebSearchTool) Execute(ctx context.Context, args Args) (string, error) {
	query, err := args.RequireString("query")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("query must not be empty")
	}
	limit := args.Int("max_results", defaultMaxResults)
	if limit <= 0 {
		limit = defaultMaxResults
	}

	endpoint := t.Endpoint
	if endpoint == "" {
		endpoint = DefaultSearchURL
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("search endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()

	body, _, err := t.client.get(ctx, u.String())
	if err != nil {
		return "", err
	}
	results, err := parseSearchResults(body, limit)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return noneResult, nil
	}

	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d. %s\n   %s", i+1, r.Title, r.URL)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "\n   %s", r.Snippet)
		}
	}
	return b.String(), nil
}

// parseSearchResults reads result__a anchors and the result__snippet that
// follows each of them.
func parseSearchResults(body []byte, limit int) ([]searchResult, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}
	var results []searchResult
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(results) > limit {
			return
		}
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result__a"):
				results = append(results, searchResult{
					Title: nodeText(n),
					URL:   resolveRedirect(attr(n, "href")),
				})
				return
			case hasClass(n, "result__snippet") && len(results) > 0:
				if last := &results[len(results)-1]; last.Snippet == "" {
					last.Snippet = nodeText(n)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// resolveRedirect unwraps the engine's /l/?uddg=<target> redirect links.
func resolveRedirect(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
