// Package locator turns a coordinate into news/incident context for the
// surrounding area, with attributed citations from the search-grounded
// generation response.
package locator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"safescout/pkg/geocode"
	"safescout/pkg/llm"
	"safescout/pkg/model"
)

// Fallback values, part of the downstream report contract.
const (
	// FallbackArea substitutes the address when reverse geocoding fails.
	FallbackArea = "the specified location"
	// FallbackText substitutes the context when the provider returns nothing.
	FallbackText = "No relevant news or activity found."
)

const newsPromptTemplate = "Search for any recent suspicious activity, police reports, or relevant news stories/information " +
	"near %s and its surrounding neighborhood. Provide the most credible information available prioritizing proximity."

// Resolver resolves location context. It never fails: every upstream
// error degrades to a documented fallback value.
type Resolver struct {
	geocoder geocode.Geocoder
	provider llm.Provider
}

// New creates a Resolver. The geocoder may be nil, in which case the
// area falls back to the generic placeholder immediately.
func New(g geocode.Geocoder, p llm.Provider) *Resolver {
	return &Resolver{geocoder: g, provider: p}
}

// Resolve builds the LocationContext for pos.
func (r *Resolver) Resolve(ctx context.Context, pos model.Coordinates) model.LocationContext {
	area := FallbackArea
	if r.geocoder != nil {
		addr, err := r.geocoder.ReverseGeocode(ctx, pos)
		if err != nil {
			slog.Warn("Locator: reverse geocoding failed", "lat", pos.Lat(), "lon", pos.Lon(), "error", err)
		} else {
			area = addr
		}
	}
	slog.Info("Locator: resolving area context", "area", area)

	prompt := fmt.Sprintf(newsPromptTemplate, area)
	res, err := r.provider.GenerateGrounded(ctx, "news", prompt)
	if err != nil {
		slog.Warn("Locator: grounded generation unavailable", "error", err)
		return model.LocationContext{Text: FallbackText, Sources: []model.Source{}}
	}

	return model.LocationContext{
		Text:    res.Text,
		Sources: ParseCitations(res.RenderedCitations),
	}
}

// ParseCitations extracts citation "chip" anchors from the rendered
// search-entry-point markup, preserving document order. Duplicates are
// kept. A parse failure yields no sources but never an error: citation
// loss must not abort text extraction.
func ParseCitations(rendered string) []model.Source {
	sources := []model.Source{}
	if strings.TrimSpace(rendered) == "" {
		return sources
	}

	doc, err := html.Parse(strings.NewReader(rendered))
	if err != nil {
		slog.Warn("Locator: failed to parse citation markup", "error", err)
		return sources
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, "chip") {
			sources = append(sources, model.Source{
				Name: strings.TrimSpace(textContent(n)),
				Link: attrValue(n, "href"),
			})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return sources
}

// hasClass reports whether the node's class attribute contains the
// given token.
func hasClass(n *html.Node, class string) bool {
	for _, token := range strings.Fields(attrValue(n, "class")) {
		if token == class {
			return true
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textContent returns the concatenated text of the node's subtree.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
