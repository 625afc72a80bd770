package scrape

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
)

const mlhEventsHTML = `<html><body>
<div class="event">
  <h3 class="event-name">HackTheNorth</h3>
  <a class="event-link" href="/events/hackthenorth"></a>
  <p class="event-date">Sep 12, 2026</p>
  <p class="event-location">Online</p>
</div>
<div class="event">
  <h3 class="event-name">Local Hack Day</h3>
  <a class="event-link" href="https://localhackday.mlh.io"></a>
  <p class="event-date">Oct 3, 2026</p>
  <p class="event-location">Boston, MA</p>
</div>
<div class="event">
  <p class="event-date">Nov 1, 2026</p>
</div>
</body></html>`

func TestMLHScrape(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string][]byte{}}
	s := NewMLHScraper(fetcher, zap.NewNop())

	season := time.Now().Year() + 1
	fetcher.pages[fmt.Sprintf("%s/seasons/%d/events", s.baseURL, season)] = []byte(mlhEventsHTML)

	opps, err := s.Scrape(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The nameless event is dropped.
	if len(opps) != 2 {
		t.Fatalf("expected 2 events, got %d", len(opps))
	}

	online := opps[0]
	if online.Name != "HackTheNorth" {
		t.Errorf("unexpected name %q", online.Name)
	}
	if online.Organization != "Major League Hacking" {
		t.Errorf("unexpected organization %q", online.Organization)
	}
	if online.Amount != 10000 {
		t.Errorf("expected default prize pool, got %v", online.Amount)
	}
	if online.Deadline != "2026-09-12" {
		t.Errorf("unexpected deadline %q", online.Deadline)
	}
	if online.URL != s.baseURL+"/events/hackthenorth" {
		t.Errorf("expected relative link resolved, got %q", online.URL)
	}
	if !containsTag(online.Tags, "Online") {
		t.Errorf("expected Online tag, got %v", online.Tags)
	}
	if !online.Eligibility.StudentsOnly {
		t.Error("MLH events are student-only")
	}

	inPerson := opps[1]
	if inPerson.URL != "https://localhackday.mlh.io" {
		t.Errorf("absolute link must pass through, got %q", inPerson.URL)
	}
	if !containsTag(inPerson.Tags, "In-Person") {
		t.Errorf("expected In-Person tag, got %v", inPerson.Tags)
	}
}

func TestMLHScrapeUnreachable(t *testing.T) {
	fetcher := &stubFetcher{err: context.DeadlineExceeded}
	s := NewMLHScraper(fetcher, zap.NewNop())

	opps, err := s.Scrape(context.Background())
	if err != nil {
		t.Fatalf("fetch failure should degrade to empty, got %v", err)
	}
	if len(opps) != 0 {
		t.Errorf("expected no opportunities, got %d", len(opps))
	}
}
