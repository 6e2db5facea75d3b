package services

import (
	"sort"

	"airbnb-dashboard/models"
)

// DefaultTopHosts is the number of hosts returned by TopNHosts when n <= 0.
const DefaultTopHosts = 10

// ApplyFilter returns the listings whose borough and room type are both in
// the allowed sets and whose price does not exceed spec.MaxPrice. Source
// order is preserved. Empty sets match nothing.
func ApplyFilter(listings []models.Listing, spec models.FilterSpec) []models.Listing {
	boroughs := toSet(spec.Boroughs)
	roomTypes := toSet(spec.RoomTypes)

	view := make([]models.Listing, 0)
	if len(boroughs) == 0 || len(roomTypes) == 0 {
		return view
	}

	for _, l := range listings {
		if _, ok := boroughs[l.NeighbourhoodGroup]; !ok {
			continue
		}
		if _, ok := roomTypes[l.RoomType]; !ok {
			continue
		}
		if l.Price > spec.MaxPrice {
			continue
		}
		view = append(view, l)
	}
	return view
}

// CountByCategory counts listings per value of a categorical column.
// Categories absent from view are omitted. The result is sorted by count
// descending; equal counts keep their first-appearance order.
func CountByCategory(view []models.Listing, column string) []models.CategoryCount {
	index := make(map[string]int)
	counts := make([]models.CategoryCount, 0)

	for _, l := range view {
		category, ok := l.Field(column)
		if !ok {
			return counts
		}
		if i, seen := index[category]; seen {
			counts[i].Count++
			continue
		}
		index[category] = len(counts)
		counts = append(counts, models.CategoryCount{Category: category, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// TopNHosts returns the n hosts with the most listings in view, sorted by
// count descending. Hosts with equal counts are ordered alphabetically.
func TopNHosts(view []models.Listing, n int) []models.HostCount {
	if n <= 0 {
		n = DefaultTopHosts
	}

	perHost := make(map[string]int)
	for _, l := range view {
		perHost[l.HostName]++
	}

	hosts := make([]models.HostCount, 0, len(perHost))
	for name, count := range perHost {
		hosts = append(hosts, models.HostCount{HostName: name, Count: count})
	}
	sort.Slice(hosts, func(i, j int) bool {
		if hosts[i].Count != hosts[j].Count {
			return hosts[i].Count > hosts[j].Count
		}
		return hosts[i].HostName < hosts[j].HostName
	})

	if len(hosts) > n {
		hosts = hosts[:n]
	}
	return hosts
}

// PriceDistribution groups the prices in view by room type. Groups appear in
// first-appearance order and prices keep view order.
func PriceDistribution(view []models.Listing) []models.PriceGroup {
	index := make(map[string]int)
	groups := make([]models.PriceGroup, 0)

	for _, l := range view {
		i, ok := index[l.RoomType]
		if !ok {
			i = len(groups)
			index[l.RoomType] = i
			groups = append(groups, models.PriceGroup{RoomType: l.RoomType})
		}
		groups[i].Prices = append(groups[i].Prices, l.Price)
	}
	return groups
}

// AvailabilityVsPrice projects view onto the fields of the scatter plot.
func AvailabilityVsPrice(view []models.Listing) []models.ScatterPoint {
	points := make([]models.ScatterPoint, 0, len(view))
	for _, l := range view {
		points = append(points, models.ScatterPoint{
			Availability: l.Availability365,
			Price:        l.Price,
			Borough:      l.NeighbourhoodGroup,
			Reviews:      l.NumberOfReviews,
			Name:         l.Name,
		})
	}
	return points
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
