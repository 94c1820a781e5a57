package crawler

import "github.com/lukemcguire/statuscat/result"

// EventKind identifies the pipeline stage that produced an Event.
type EventKind int

const (
	// EventPage reports a seed page that has been processed.
	EventPage EventKind = iota + 1
	// EventProbe reports a link that has been probed.
	EventProbe
)

// Event reports progress through the pipeline.
type Event struct {
	Kind   EventKind
	URL    string        // Seed page or probed link
	Done   int           // Items finished in this stage, including this one
	Total  int           // Items in this stage
	Links  int           // Links found on the page (EventPage)
	Failed bool          // The page could not be loaded or was skipped (EventPage)
	Status result.Status // Probe outcome (EventProbe)
}
