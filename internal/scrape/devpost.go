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

const devpostBaseURL = "https://devpost.com"

// DevpostScraper pulls hackathons from the public Devpost listing pages.
type DevpostScraper struct {
	fetcher Fetcher
	logger  *zap.Logger
	baseURL string
}

func NewDevpostScraper(fetcher Fetcher, logger *zap.Logger) *DevpostScraper {
	return &DevpostScraper{
		fetcher: fetcher,
		logger:  logger.Named("devpost"),
		baseURL: devpostBaseURL,
	}
}

func (s *DevpostScraper) SourceName() string { return "devpost" }

func (s *DevpostScraper) Scrape(ctx context.Context) ([]RawOpportunity, error) {
	var opportunities []RawOpportunity

	// Both listing states carry submittable hackathons.
	for _, status := range []string{"open", "upcoming"} {
		page, err := s.scrapeStatusPage(ctx, status)
		if err != nil {
			s.logger.Warn("failed to scrape listing page",
				zap.String("status", status), zap.Error(err))
			continue
		}
		opportunities = append(opportunities, page...)
	}

	s.logger.Info("devpost scraping complete", zap.Int("count", len(opportunities)))
	return opportunities, nil
}

func (s *DevpostScraper) scrapeStatusPage(ctx context.Context, status string) ([]RawOpportunity, error) {
	url := fmt.Sprintf("%s/hackathons?status[]=%s&order=submission_period", s.baseURL, status)

	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	var opportunities []RawOpportunity
	doc.Find("div.challenge-listing").EachWithBreak(func(i int, item *goquery.Selection) bool {
		if i >= 30 {
			return false
		}
		if opp, ok := s.parseListing(item); ok {
			opportunities = append(opportunities, opp)
		}
		return true
	})

	return opportunities, nil
}

func (s *DevpostScraper) parseListing(item *goquery.Selection) (RawOpportunity, bool) {
	title := cleanText(item.Find("h3.challenge-listing-title").Text())
	if title == "" {
		title = cleanText(item.Find("a.challenge-title").Text())
	}
	if title == "" {
		return RawOpportunity{}, false
	}

	href, _ := item.Find("a").First().Attr("href")
	url := href
	if strings.HasPrefix(href, "/") {
		url = s.baseURL + href
	}

	organization := cleanText(item.Find("div.challenge-listing-host").Text())
	if organization == "" {
		organization = cleanText(item.Find("span.host-name").Text())
	}
	if organization == "" {
		organization = "Unknown"
	}

	prizeText := item.Find("div.challenge-prize").Text()
	if prizeText == "" {
		prizeText = item.Find("span.prize-amount").Text()
	}
	amount, amountDisplay := parsePrize(prizeText)

	deadlineText := cleanText(item.Find("div.challenge-submission-period").Text())
	deadline := extractISODate(deadlineText)

	var tags []string
	item.Find("span.challenge-listing-theme, span.tag").Each(func(_ int, t *goquery.Selection) {
		tags = appendUnique(tags, t.Text())
	})

	location := strings.ToLower(item.Find("div.challenge-listing-location").Text())
	isOnline := location == "" || strings.Contains(location, "online")
	if isOnline {
		tags = appendUnique(tags, "Online")
	}

	deadlineType := "fixed"
	if deadline == "" {
		deadlineType = "rolling"
	}

	return RawOpportunity{
		Type:          "hackathon",
		Name:          title,
		Organization:  organization,
		Amount:        amount,
		AmountDisplay: amountDisplay,
		Deadline:      deadline,
		DeadlineType:  deadlineType,
		URL:           url,
		Source:        s.SourceName(),
		Tags:          tags,
		Eligibility: RawEligibility{
			Citizenship: []string{"Any"},
			Geographic:  []string{"Online"},
		},
		Requirements: RawRequirements{
			EstimatedTime: "48 hours",
			SkillsNeeded:  tags,
		},
		Description:      fmt.Sprintf("%s hackathon hosted by %s", title, organization),
		CompetitionLevel: "Medium",
		DiscoveredAt:     time.Now().UTC().Format(time.RFC3339),
	}, true
}
