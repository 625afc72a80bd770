package scrape

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const kaggleBaseURL = "https://www.kaggle.com"

var kaggleCompetitionHref = regexp.MustCompile(`^/competitions/[^/]+$`)

// KaggleScraper pulls active competitions from the Kaggle listing page.
type KaggleScraper struct {
	fetcher Fetcher
	logger  *zap.Logger
	baseURL string
}

func NewKaggleScraper(fetcher Fetcher, logger *zap.Logger) *KaggleScraper {
	return &KaggleScraper{
		fetcher: fetcher,
		logger:  logger.Named("kaggle"),
		baseURL: kaggleBaseURL,
	}
}

func (s *KaggleScraper) SourceName() string { return "kaggle" }

func (s *KaggleScraper) Scrape(ctx context.Context) ([]RawOpportunity, error) {
	body, err := s.fetcher.Fetch(ctx, s.baseURL+"/competitions")
	if err != nil {
		s.logger.Warn("failed to fetch competitions page", zap.Error(err))
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse competitions page: %w", err)
	}

	seen := make(map[string]struct{})
	var opportunities []RawOpportunity

	doc.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		if len(opportunities) >= 25 {
			return false
		}

		href, _ := link.Attr("href")
		if !kaggleCompetitionHref.MatchString(href) {
			return true
		}

		title := cleanText(link.Text())
		if len(title) < 5 {
			return true
		}
		if _, dup := seen[title]; dup {
			return true
		}
		seen[title] = struct{}{}

		url := href
		if strings.HasPrefix(href, "/") {
			url = s.baseURL + href
		}

		// Prize usually sits in the surrounding card text.
		amount, amountDisplay := parsePrize(link.Closest("div").Text())

		opportunities = append(opportunities, s.buildOpportunity(title, url, amount, amountDisplay))
		return true
	})

	s.logger.Info("kaggle scraping complete", zap.Int("count", len(opportunities)))
	return opportunities, nil
}

func (s *KaggleScraper) buildOpportunity(title, url string, amount float64, amountDisplay string) RawOpportunity {
	deadlineType := "fixed"
	deadline := ""
	if amount == 0 {
		// Listing cards without a visible prize are usually rolling
		// knowledge competitions.
		deadlineType = "rolling"
	} else {
		deadline = time.Now().AddDate(0, 0, 45).Format("2006-01-02")
	}

	return RawOpportunity{
		Type:          "competition",
		Name:          title,
		Organization:  "Kaggle",
		Amount:        amount,
		AmountDisplay: amountDisplay,
		Deadline:      deadline,
		DeadlineType:  deadlineType,
		URL:           url,
		Source:        s.SourceName(),
		Tags:          []string{"Data Science", "Machine Learning", "Competition"},
		Eligibility: RawEligibility{
			Citizenship: []string{"Any"},
			Geographic:  []string{"Online"},
		},
		Requirements: RawRequirements{
			EstimatedTime: "20-40 hours",
			SkillsNeeded:  []string{"Python", "Machine Learning", "Data Analysis"},
		},
		Description:      fmt.Sprintf("%s - Kaggle machine learning competition", title),
		CompetitionLevel: "High",
		DiscoveredAt:     time.Now().UTC().Format(time.RFC3339),
	}
}
