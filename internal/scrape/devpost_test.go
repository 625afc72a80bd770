package scrape

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type stubFetcher struct {
	pages   map[string][]byte
	err     error
	fetched []string
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.fetched = append(f.fetched, url)
	if f.err != nil {
		return nil, f.err
	}
	if body, ok := f.pages[url]; ok {
		return body, nil
	}
	return []byte("<html></html>"), nil
}

const devpostListingHTML = `<html><body>
<div class="challenge-listing">
  <a href="/hackathons/ai-for-good"><h3 class="challenge-listing-title">AI For Good Hackathon</h3></a>
  <div class="challenge-listing-host">TechCorp</div>
  <div class="challenge-prize">$10,000 in prizes</div>
  <div class="challenge-submission-period">Deadline: March 15, 2026</div>
  <span class="challenge-listing-theme">AI</span>
  <span class="challenge-listing-theme">Social Good</span>
</div>
<div class="challenge-listing">
  <a href="https://example.com/hack"><h3 class="challenge-listing-title">Web3 Builders</h3></a>
  <div class="challenge-listing-location">In-person, Austin TX</div>
</div>
<div class="challenge-listing">
  <div class="challenge-prize">$500</div>
</div>
</body></html>`

func TestDevpostScrape(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string][]byte{}}
	s := NewDevpostScraper(fetcher, zap.NewNop())

	openURL := fmt.Sprintf("%s/hackathons?status[]=open&order=submission_period", s.baseURL)
	fetcher.pages[openURL] = []byte(devpostListingHTML)

	opps, err := s.Scrape(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Two listings have titles; the third is dropped.
	if len(opps) != 2 {
		t.Fatalf("expected 2 opportunities, got %d", len(opps))
	}

	first := opps[0]
	if first.Name != "AI For Good Hackathon" {
		t.Errorf("unexpected name %q", first.Name)
	}
	if first.Organization != "TechCorp" {
		t.Errorf("unexpected organization %q", first.Organization)
	}
	if first.Amount != 10000 {
		t.Errorf("unexpected amount %v", first.Amount)
	}
	if first.Deadline != "2026-03-15" {
		t.Errorf("unexpected deadline %q", first.Deadline)
	}
	if first.DeadlineType != "fixed" {
		t.Errorf("unexpected deadline type %q", first.DeadlineType)
	}
	if first.URL != s.baseURL+"/hackathons/ai-for-good" {
		t.Errorf("expected relative href resolved, got %q", first.URL)
	}
	if first.Type != "hackathon" || first.Source != "devpost" {
		t.Errorf("unexpected type/source %q/%q", first.Type, first.Source)
	}
	// No location element means online.
	if !containsTag(first.Tags, "Online") || !containsTag(first.Tags, "AI") {
		t.Errorf("unexpected tags %v", first.Tags)
	}

	second := opps[1]
	if second.Organization != "Unknown" {
		t.Errorf("expected Unknown organization, got %q", second.Organization)
	}
	if second.DeadlineType != "rolling" {
		t.Errorf("expected rolling without deadline, got %q", second.DeadlineType)
	}
	if containsTag(second.Tags, "Online") {
		t.Errorf("in-person listing should not be tagged Online: %v", second.Tags)
	}
}

func TestDevpostScrapeSurvivesPageFailure(t *testing.T) {
	fetcher := &stubFetcher{err: context.DeadlineExceeded}
	s := NewDevpostScraper(fetcher, zap.NewNop())

	opps, err := s.Scrape(context.Background())
	if err != nil {
		t.Fatalf("page failures should not fail the scrape: %v", err)
	}
	if len(opps) != 0 {
		t.Errorf("expected no opportunities, got %d", len(opps))
	}
	// Both listing states were attempted.
	if len(fetcher.fetched) != 2 {
		t.Errorf("expected 2 page fetches, got %d", len(fetcher.fetched))
	}
	for _, url := range fetcher.fetched {
		if !strings.Contains(url, "status[]=") {
			t.Errorf("unexpected URL %q", url)
		}
	}
}

func containsTag(tags []string, want string) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}
	return false
}
