package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/stat"

	"airbnb-dashboard/models"
	"airbnb-dashboard/utils"
)

const mostReviewedCount = 5

type InsightService struct {
	logger *utils.Logger
	out    io.Writer
}

func NewInsightService(logger *utils.Logger, out io.Writer) *InsightService {
	return &InsightService{logger: logger, out: out}
}

// GenerateInsights computes headline statistics for listings.
func GenerateInsights(listings []models.Listing) *models.InsightReport {
	report := &models.InsightReport{
		MostReviewed: make([]models.Listing, 0),
		ByBorough:    make([]models.CategoryCount, 0),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)

	hosts := make(map[string]struct{})
	prices := make([]float64, 0, len(listings))
	mostExpensive := 0
	for i, l := range listings {
		hosts[l.HostName] = struct{}{}
		prices = append(prices, l.Price)
		if l.Price > listings[mostExpensive].Price {
			mostExpensive = i
		}
	}
	report.DistinctHosts = len(hosts)

	sort.Float64s(prices)
	report.MinPrice = prices[0]
	report.MaxPrice = prices[len(prices)-1]
	report.AveragePrice = round2(stat.Mean(prices, nil))
	report.MedianPrice = stat.Quantile(0.5, stat.Empirical, prices, nil)
	expensive := listings[mostExpensive]
	report.MostExpensive = &expensive

	reviewed := append([]models.Listing(nil), listings...)
	sort.SliceStable(reviewed, func(i, j int) bool {
		return reviewed[i].NumberOfReviews > reviewed[j].NumberOfReviews
	})
	if len(reviewed) > mostReviewedCount {
		reviewed = reviewed[:mostReviewedCount]
	}
	report.MostReviewed = reviewed
	report.ByBorough = CountByCategory(listings, models.ColNeighbourhoodGroup)

	return report
}

func (s *InsightService) Print(r *models.InsightReport) {
	w := s.out
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  🏙️  AIRBNB NYC DATASET INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total listings : \033[1m%s\033[0m\n", humanize.Comma(int64(r.TotalListings)))
	fmt.Fprintf(w, "  Distinct hosts : \033[1m%s\033[0m\n", humanize.Comma(int64(r.DistinctHosts)))
	fmt.Fprintln(w)

	// Price Stats
	fmt.Fprintf(w, "\033[1;33m  Price Statistics (per night)\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.TotalListings > 0 {
		fmt.Fprintf(w, "  Average price : \033[1;32m$%.2f\033[0m\n", r.AveragePrice)
		fmt.Fprintf(w, "  Median price  : \033[1;32m$%.2f\033[0m\n", r.MedianPrice)
		fmt.Fprintf(w, "  Minimum price : \033[1;32m$%.2f\033[0m\n", r.MinPrice)
		fmt.Fprintf(w, "  Maximum price : \033[1;32m$%.2f\033[0m\n", r.MaxPrice)
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	if r.MostExpensive != nil {
		fmt.Fprintf(w, "\033[1;33m  Most Expensive Listing\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(r.MostExpensive.Name, 50))
		fmt.Fprintf(w, "  Borough : %s\n", r.MostExpensive.NeighbourhoodGroup)
		fmt.Fprintf(w, "  Host    : %s\n", r.MostExpensive.HostName)
		fmt.Fprintf(w, "  Price   : \033[1;31m$%.2f/night\033[0m\n", r.MostExpensive.Price)
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\033[1;33m  Top %d Most Reviewed Listings\033[0m\n", mostReviewedCount)
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.MostReviewed) == 0 {
		fmt.Fprintf(w, "  No listings\n")
	} else {
		for i, l := range r.MostReviewed {
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %-40s \033[1;32m%d reviews\033[0m\n",
				i+1, truncate(l.Name, 38), l.NumberOfReviews)
		}
	}
	fmt.Fprintln(w)

	// Listings by borough, already sorted by count
	fmt.Fprintf(w, "\033[1;33m  Listings by Borough\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ByBorough) == 0 {
		fmt.Fprintf(w, "  No borough data\n")
	} else {
		top := r.ByBorough[0].Count
		for _, bc := range r.ByBorough {
			bar := strings.Repeat("█", scaleBar(bc.Count, top, 30))
			fmt.Fprintf(w, "  %-15s %s (%s)\n", truncate(bc.Category, 15), bar, humanize.Comma(int64(bc.Count)))
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
	s.logger.Debug("[insights] Printed report for %d listings", r.TotalListings)
}

// scaleBar maps count onto [1, width] relative to top.
func scaleBar(count, top, width int) int {
	if top <= 0 || count <= 0 {
		return 0
	}
	n := count * width / top
	if n < 1 {
		n = 1
	}
	return n
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
