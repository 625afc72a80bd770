// Command discover runs one scrape-convert-rank pass from the terminal and
// prints the top matches. Useful for checking source health and scoring
// behavior without starting the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/scholarstream/scholarstream/internal/convert"
	"github.com/scholarstream/scholarstream/internal/match"
	"github.com/scholarstream/scholarstream/internal/models"
	"github.com/scholarstream/scholarstream/internal/scrape"
)

func main() {
	var (
		status  = flag.String("status", "Undergraduate", "academic status")
		major   = flag.String("major", "", "field of study")
		gpaVal  = flag.Float64("gpa", 0, "GPA, 0 to omit")
		needVal = flag.Float64("need", 0, "financial need in dollars, 0 to omit")
		top     = flag.Int("top", 10, "number of results to print")
		timeout = flag.Duration("timeout", 2*time.Minute, "overall scrape timeout")
		curated = flag.Bool("curated-only", false, "skip live sources")
	)
	flag.Parse()

	logger := zap.NewNop()
	fetcher := scrape.NewHTTPFetcher(scrape.FetchConfig{})

	scrapers := []scrape.Scraper{scrape.NewScholarshipsScraper(logger)}
	if !*curated {
		scrapers = append(scrapers,
			scrape.NewDevpostScraper(fetcher, logger),
			scrape.NewMLHScraper(fetcher, logger),
			scrape.NewKaggleScraper(fetcher, logger),
			scrape.NewGitcoinScraper(fetcher, logger),
		)
	}
	aggregator := scrape.NewAggregator(logger, len(scrapers), scrapers...)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	raws := aggregator.Aggregate(ctx)

	opportunities := make([]models.Opportunity, 0, len(raws))
	for _, raw := range raws {
		opp, err := convert.Opportunity(raw)
		if err != nil {
			continue
		}
		opportunities = append(opportunities, opp)
	}

	profile := models.UserProfile{
		Name:           "cli",
		AcademicStatus: *status,
		Major:          *major,
	}
	if *gpaVal > 0 {
		profile.GPA = gpaVal
	}
	if *needVal > 0 {
		profile.FinancialNeed = needVal
	}

	ranked := match.Rank(opportunities, profile)
	if len(ranked) == 0 {
		fmt.Println("No matching opportunities found")
		os.Exit(1)
	}
	if len(ranked) > *top {
		ranked = ranked[:*top]
	}

	fmt.Printf("Found %d opportunities from %d sources\n\n", len(ranked), len(scrapers))
	for i, opp := range ranked {
		deadline := opp.Deadline
		if deadline == "" {
			deadline = "rolling"
		}
		fmt.Printf("%2d. [%5.1f %s] %s - %s (%s, due %s)\n",
			i+1, opp.MatchScore, opp.MatchTier, opp.Name, opp.Organization,
			opp.AmountDisplay, deadline)
	}
}
