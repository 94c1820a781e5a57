package crawler

import (
	"context"
	"errors"
	"sync"

	"github.com/lukemcguire/statuscat/browser"
)

// fakeSession serves canned links per page and counts Close calls.
type fakeSession struct {
	mu       sync.Mutex
	pages    map[string][]string
	failures map[string]error
	panics   map[string]bool
	visited  []string
	closed   int
	closeErr error
}

func newFakeSession(pages map[string][]string) *fakeSession {
	return &fakeSession{
		pages:    pages,
		failures: map[string]error{},
		panics:   map[string]bool{},
	}
}

func (f *fakeSession) Links(_ context.Context, pageURL string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed > 0 {
		return nil, errors.New("session used after close")
	}
	f.visited = append(f.visited, pageURL)
	if f.panics[pageURL] {
		panic("driver crashed on " + pageURL)
	}
	if err := f.failures[pageURL]; err != nil {
		return nil, err
	}
	links, ok := f.pages[pageURL]
	if !ok {
		return nil, errors.New("navigation failed: net::ERR_NAME_NOT_RESOLVED")
	}
	return links, nil
}

func (f *fakeSession) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return f.closeErr
}

func (f *fakeSession) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// openerFor returns an Opener handing out s and counting how often it ran.
func openerFor(s *fakeSession, opened *int) Opener {
	return func(context.Context) (browser.Session, error) {
		*opened++
		return s, nil
	}
}
