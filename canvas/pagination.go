package canvas

import (
	"sort"
	"strings"

	"github.com/tomnomnom/linkheader"
)

// Relation names Canvas uses in the Link header.
const (
	RelCurrent = "current"
	RelNext    = "next"
	RelPrev    = "prev"
	RelFirst   = "first"
	RelLast    = "last"
)

// PageLinks maps a relation name to the URL of that page.
type PageLinks map[string]string

// ParseLinks parses a Link header. An empty header yields nil links and no
// error; every other header must consist solely of <url>; rel="name" entries.
func ParseLinks(header string) (PageLinks, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, nil
	}

	for _, chunk := range strings.Split(header, ",") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		if !strings.HasPrefix(chunk, "<") || !strings.Contains(chunk, ">") {
			return nil, &PaginationError{Header: header, Reason: "entry without <url>: " + chunk}
		}
		if !strings.Contains(strings.ToLower(chunk), "rel=") {
			return nil, &PaginationError{Header: header, Reason: "entry without rel: " + chunk}
		}
	}

	links := make(PageLinks)
	for _, l := range linkheader.Parse(header) {
		if l.URL == "" || l.Rel == "" {
			return nil, &PaginationError{Header: header, Reason: "incomplete entry for " + l.URL}
		}
		for _, rel := range strings.Fields(l.Rel) {
			links[strings.ToLower(rel)] = l.URL
		}
	}
	if len(links) == 0 {
		return nil, &PaginationError{Header: header, Reason: "no links found"}
	}
	return links, nil
}

// Done reports whether the current page is the last one.
func (p PageLinks) Done() (bool, error) {
	current, ok := p[RelCurrent]
	if !ok {
		return false, &PaginationError{Header: p.String(), Reason: `missing rel="current"`}
	}
	last, ok := p[RelLast]
	if !ok {
		return false, &PaginationError{Header: p.String(), Reason: `missing rel="last"`}
	}
	return current == last, nil
}

// Next returns the URL of the following page. It must only be called once
// Done has reported false.
func (p PageLinks) Next() (string, error) {
	next, ok := p[RelNext]
	if !ok || next == "" {
		return "", &PaginationError{Header: p.String(), Reason: `not on the last page but no rel="next"`}
	}
	return next, nil
}

// String renders the links back into header form, in a stable order.
func (p PageLinks) String() string {
	order := []string{RelCurrent, RelNext, RelPrev, RelFirst, RelLast}
	var parts []string
	seen := make(map[string]bool, len(p))
	for _, rel := range order {
		if u, ok := p[rel]; ok {
			parts = append(parts, "<"+u+`>; rel="`+rel+`"`)
			seen[rel] = true
		}
	}
	var extra []string
	for rel := range p {
		if !seen[rel] {
			extra = append(extra, rel)
		}
	}
	sort.Strings(extra)
	for _, rel := range extra {
		parts = append(parts, "<"+p[rel]+`>; rel="`+rel+`"`)
	}
	return strings.Join(parts, ",")
}
