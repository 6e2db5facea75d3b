package models

// FilterSpec is the current set of user-chosen filter constraints.
type FilterSpec struct {
	Boroughs  []string `json:"boroughs"`
	RoomTypes []string `json:"room_types"`
	MaxPrice  float64  `json:"max_price" validate:"gte=0"`
}

// CategoryCount is the number of listings in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// HostCount is the number of listings owned by one host.
type HostCount struct {
	HostName string `json:"host_name"`
	Count    int    `json:"count"`
}

// BoxSummary is the five-number summary plus Tukey fences of a price group.
// Min and Max are the whisker ends: the most extreme values inside the fences.
type BoxSummary struct {
	Min        float64   `json:"min"`
	Q1         float64   `json:"q1"`
	Median     float64   `json:"median"`
	Q3         float64   `json:"q3"`
	Max        float64   `json:"max"`
	LowerFence float64   `json:"lower_fence"`
	UpperFence float64   `json:"upper_fence"`
	Outliers   []float64 `json:"outliers"`
}

// PriceGroup holds the prices of one room type.
type PriceGroup struct {
	RoomType string     `json:"room_type"`
	Prices   []float64  `json:"prices"`
	Box      BoxSummary `json:"box"`
}

// ScatterPoint is one listing projected for the availability/price chart.
type ScatterPoint struct {
	Availability int     `json:"availability_365"`
	Price        float64 `json:"price"`
	Borough      string  `json:"neighbourhood_group"`
	Reviews      int     `json:"number_of_reviews"`
	Name         string  `json:"name"`
}

// Dashboard carries every chart dataset for one filter.
type Dashboard struct {
	Filter          FilterSpec      `json:"filter"`
	Total           int             `json:"total"`
	ByBorough       []CategoryCount `json:"by_borough"`
	ByRoomType      []CategoryCount `json:"by_room_type"`
	PriceByRoomType []PriceGroup    `json:"price_by_room_type"`
	Scatter         []ScatterPoint  `json:"scatter"`
	TopHosts        []HostCount     `json:"top_hosts"`
	Insights        *InsightReport  `json:"insights"`
}

// FilterOptions describes the control surface: selectable values and the
// price slider range.
type FilterOptions struct {
	Boroughs        []string `json:"boroughs"`
	RoomTypes       []string `json:"room_types"`
	MaxPrice        int      `json:"max_price"`
	DefaultMaxPrice int      `json:"default_max_price"`
	TotalListings   int      `json:"total_listings"`
}

// InsightReport holds headline statistics over a set of listings.
type InsightReport struct {
	TotalListings int             `json:"total_listings"`
	DistinctHosts int             `json:"distinct_hosts"`
	AveragePrice  float64         `json:"average_price"`
	MedianPrice   float64         `json:"median_price"`
	MinPrice      float64         `json:"min_price"`
	MaxPrice      float64         `json:"max_price"`
	MostExpensive *Listing        `json:"most_expensive,omitempty"`
	MostReviewed  []Listing       `json:"most_reviewed"`
	ByBorough     []CategoryCount `json:"by_borough"`
}
