// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package abstract fetches a candidate's landing page and extracts usable
// descriptive text when the corpus search response carried none. Extraction
// is a fixed ladder of heuristics; any failure along the way yields an empty
// string, which the orchestrator treats as "no abstract".
package abstract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sciencetwins/twin-engine/internal/cache"
	"github.com/sciencetwins/twin-engine/internal/httputil"
	"github.com/sciencetwins/twin-engine/pkg/types"
)

const (
	// minExtractLen gates container and metadata extractions.
	minExtractLen = 50

	// minParagraphLen gates the body-paragraph fallback.
	minParagraphLen = 80

	maxAttempts = 2
)

var abstractPattern = regexp.MustCompile(`(?i)abstract`)

// descriptionPattern matches the page metadata description fields, including
// the og:description property.
var descriptionPattern = regexp.MustCompile(`(?i)description`)

// Resolver retrieves descriptive text by URL, caching successful extractions.
type Resolver struct {
	Client *http.Client
	Cache  *cache.TTL[string]
	Config types.FetchConfig

	// Log receives debug notes about failed fetches.
	Log io.Writer
}

// NewResolver returns a resolver whose HTTP client follows redirects and is
// bounded by cfg.Timeout.
func NewResolver(cfg types.FetchConfig, c *cache.TTL[string], w io.Writer) *Resolver {
	if w == nil {
		w = io.Discard
	}
	return &Resolver{
		Client: &http.Client{Timeout: cfg.Timeout},
		Cache:  c,
		Config: cfg,
		Log:    w,
	}
}

// Resolve returns the extracted abstract text for url, or "" when the page
// cannot be fetched or no heuristic produces usable text. An empty url
// short-circuits without a network call. Successful extractions are cached by
// URL; failures are not, so a transient failure can be retried later.
func (r *Resolver) Resolve(ctx context.Context, url string) string {
	if url == "" {
		return ""
	}
	if cached, ok := r.Cache.Get(url); ok {
		return cached
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		fmt.Fprintf(r.Log, "abstract fetch request %s: %v\n", url, err)
		return ""
	}
	req.Header.Set("User-Agent", r.Config.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, r.Client, req, maxAttempts)
	if err != nil {
		fmt.Fprintf(r.Log, "abstract fetch %s: %v\n", url, err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		fmt.Fprintf(r.Log, "abstract parse %s: %v\n", url, err)
		return ""
	}

	text := Extract(doc)
	if text != "" {
		r.Cache.Set(url, text)
	}
	return text
}

// Extract applies the ordered extraction heuristics to a parsed page:
// (a) a section or div whose class or id names an abstract, preferring its
// first paragraph; (b) the metadata description; (c) the first sufficiently
// long paragraph in the main content region, then anywhere on the page.
func Extract(doc *goquery.Document) string {
	if text := fromAbstractContainer(doc); text != "" {
		return text
	}
	if text := fromMetaDescription(doc); text != "" {
		return text
	}
	return fromFirstParagraph(doc)
}

func fromAbstractContainer(doc *goquery.Document) string {
	var found string
	doc.Find("section, div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		if !abstractPattern.MatchString(class) && !abstractPattern.MatchString(id) {
			return true
		}
		target := s.Find("p").First()
		if target.Length() == 0 {
			target = s
		}
		if text := collapseSpace(target.Text()); len(text) > minExtractLen {
			found = text
			return false
		}
		return true
	})
	return found
}

func fromMetaDescription(doc *goquery.Document) string {
	var found string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		property, _ := s.Attr("property")
		if !descriptionPattern.MatchString(name) && !descriptionPattern.MatchString(property) {
			return true
		}
		if content := strings.TrimSpace(s.AttrOr("content", "")); len(content) > minExtractLen {
			found = content
			return false
		}
		return true
	})
	return found
}

func fromFirstParagraph(doc *goquery.Document) string {
	scope := doc.Find("main").First()
	if scope.Length() == 0 {
		scope = doc.Find("article").First()
	}

	var paragraphs *goquery.Selection
	if scope.Length() > 0 {
		paragraphs = scope.Find("p")
	} else {
		paragraphs = doc.Find("p")
	}

	var found string
	paragraphs.EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if text := collapseSpace(p.Text()); len(text) > minParagraphLen {
			found = text
			return false
		}
		return true
	})
	return found
}

// collapseSpace trims and collapses runs of whitespace to single spaces, so
// markup line breaks inside a paragraph do not leak into the abstract.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
