package scrape

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	mlhBaseURL = "https://mlh.io"

	// Average MLH hackathon prize pool; the calendar does not list amounts.
	mlhDefaultPrize = 10000
)

// MLHScraper pulls events from the Major League Hacking season calendar.
type MLHScraper struct {
	fetcher Fetcher
	logger  *zap.Logger
	baseURL string
}

func NewMLHScraper(fetcher Fetcher, logger *zap.Logger) *MLHScraper {
	return &MLHScraper{
		fetcher: fetcher,
		logger:  logger.Named("mlh"),
		baseURL: mlhBaseURL,
	}
}

func (s *MLHScraper) SourceName() string { return "mlh" }

func (s *MLHScraper) Scrape(ctx context.Context) ([]RawOpportunity, error) {
	season := time.Now().Year() + 1
	url := fmt.Sprintf("%s/seasons/%d/events", s.baseURL, season)

	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.logger.Warn("failed to fetch events calendar", zap.Error(err))
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse events page: %w", err)
	}

	var opportunities []RawOpportunity
	doc.Find("div.event").EachWithBreak(func(i int, item *goquery.Selection) bool {
		if i >= 25 {
			return false
		}
		if opp, ok := s.parseEvent(item); ok {
			opportunities = append(opportunities, opp)
		}
		return true
	})

	s.logger.Info("mlh scraping complete", zap.Int("count", len(opportunities)))
	return opportunities, nil
}

func (s *MLHScraper) parseEvent(item *goquery.Selection) (RawOpportunity, bool) {
	title := cleanText(item.Find("h3.event-name").Text())
	if title == "" {
		return RawOpportunity{}, false
	}

	href, _ := item.Find("a.event-link").Attr("href")
	url := href
	if href != "" && !strings.HasPrefix(href, "http") {
		url = s.baseURL + href
	}
	if url == "" {
		url = s.baseURL
	}

	deadline := extractISODate(item.Find("p.event-date").Text())

	location := cleanText(item.Find("p.event-location").Text())
	isOnline := location == "" ||
		strings.Contains(strings.ToLower(location), "online") ||
		strings.Contains(strings.ToLower(location), "virtual")

	tags := []string{"MLH", "Student Hackathon"}
	if isOnline {
		tags = append(tags, "Online")
	} else {
		tags = append(tags, "In-Person")
	}

	geographic := []string{"Online"}
	if !isOnline && location != "" {
		geographic = []string{location}
	}

	return RawOpportunity{
		Type:          "hackathon",
		Name:          title,
		Organization:  "Major League Hacking",
		Amount:        mlhDefaultPrize,
		AmountDisplay: FormatAmount(mlhDefaultPrize) + " in prizes",
		Deadline:      deadline,
		DeadlineType:  "fixed",
		URL:           url,
		Source:        s.SourceName(),
		Tags:          tags,
		Eligibility: RawEligibility{
			StudentsOnly: true,
			GradeLevels:  []string{"undergraduate", "graduate"},
			Citizenship:  []string{"Any"},
			Geographic:   geographic,
		},
		Requirements: RawRequirements{
			EstimatedTime: "24-48 hours",
			SkillsNeeded:  []string{"Programming", "Teamwork", "Problem Solving"},
		},
		Description:      fmt.Sprintf("%s - Official MLH hackathon", title),
		CompetitionLevel: "Medium",
		DiscoveredAt:     time.Now().UTC().Format(time.RFC3339),
	}, true
}
