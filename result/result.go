// Package result holds the data model shared by the statuscat pipeline:
// link sets, probe outcomes and their export formats.
package result

import (
	"fmt"
	"slices"
	"strconv"
	"time"
)

// LinkSet is a set of link URLs keyed by their exact string value.
type LinkSet map[string]struct{}

// NewLinkSet creates a LinkSet holding the given links.
func NewLinkSet(links ...string) LinkSet {
	set := make(LinkSet, len(links))
	for _, link := range links {
		set.Add(link)
	}
	return set
}

// Add inserts link into the set.
func (s LinkSet) Add(link string) {
	s[link] = struct{}{}
}

// Contains reports whether link is in the set.
func (s LinkSet) Contains(link string) bool {
	_, ok := s[link]
	return ok
}

// Union adds every member of other to s.
func (s LinkSet) Union(other LinkSet) {
	for link := range other {
		s[link] = struct{}{}
	}
}

// Len returns the number of links in the set.
func (s LinkSet) Len() int {
	return len(s)
}

// Sorted returns the members in lexicographic order.
func (s LinkSet) Sorted() []string {
	links := make([]string, 0, len(s))
	for link := range s {
		links = append(links, link)
	}
	slices.Sort(links)
	return links
}

// StatusKind tags which variant a Status holds.
type StatusKind int

const (
	// KindSuccess means the probe got an HTTP response.
	KindSuccess StatusKind = iota + 1
	// KindUnreachable means no HTTP status could be determined.
	KindUnreachable
)

// ErrorMarker is the display text for an unreachable link.
const ErrorMarker = "Error"

// FallbackImageCode is the illustration shown for unreachable links.
const FallbackImageCode = 404

// Status is the outcome of probing a single link.
type Status struct {
	Kind   StatusKind
	Code   int           // HTTP status code, set for KindSuccess
	Reason ErrorCategory // Failure category, set for KindUnreachable
	Err    string        // Failure message, set for KindUnreachable
}

// Success returns a Status for a received HTTP status code.
func Success(code int) Status {
	return Status{Kind: KindSuccess, Code: code}
}

// Unreachable returns a Status for a probe that failed at transport level.
func Unreachable(err error) Status {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return Status{Kind: KindUnreachable, Reason: ClassifyError(err), Err: msg}
}

// IsUnreachable reports whether the probe failed to obtain a status.
func (s Status) IsUnreachable() bool {
	return s.Kind == KindUnreachable
}

// String returns the status code as text, or ErrorMarker.
func (s Status) String() string {
	switch s.Kind {
	case KindSuccess:
		return strconv.Itoa(s.Code)
	case KindUnreachable:
		return ErrorMarker
	default:
		panic(fmt.Sprintf("result: unknown status kind %d", s.Kind))
	}
}

// ImageCode returns the status code used to pick the report illustration.
// Unreachable links use FallbackImageCode.
func (s Status) ImageCode() int {
	switch s.Kind {
	case KindSuccess:
		return s.Code
	case KindUnreachable:
		return FallbackImageCode
	default:
		panic(fmt.Sprintf("result: unknown status kind %d", s.Kind))
	}
}

// StatusResult pairs a link with its probe outcome.
type StatusResult struct {
	Link   string
	Status Status
}

// Stats contains aggregate statistics for a run.
type Stats struct {
	Pages       int           // Seed pages visited
	PagesFailed int           // Seed pages that contributed no links due to an error
	Links       int           // Unique links probed
	Unreachable int           // Links whose probe failed
	Duration    time.Duration // Total time taken
}

// Result is the complete output of a run, ordered by link.
type Result struct {
	Links []StatusResult
	Stats Stats
}
