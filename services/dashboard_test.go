package services

import (
	"context"
	"reflect"
	"testing"
	"time"

	"airbnb-dashboard/models"
)

func TestSummarize(t *testing.T) {
	prices := []float64{100, 3, 1, 4, 2}
	box := Summarize(prices)

	want := models.BoxSummary{
		Min: 1, Q1: 2, Median: 3, Q3: 4, Max: 4,
		LowerFence: -1, UpperFence: 7,
		Outliers: []float64{100},
	}
	if !reflect.DeepEqual(box, want) {
		t.Errorf("Summarize: got %+v, want %+v", box, want)
	}
	if prices[0] != 100 || prices[1] != 3 {
		t.Error("Summarize reordered its input")
	}
}

func TestSummarizeEmptyAndSingle(t *testing.T) {
	box := Summarize(nil)
	if box.Outliers == nil || len(box.Outliers) != 0 {
		t.Errorf("empty: got outliers %v", box.Outliers)
	}

	box = Summarize([]float64{75})
	if box.Min != 75 || box.Median != 75 || box.Max != 75 || len(box.Outliers) != 0 {
		t.Errorf("single value: got %+v", box)
	}
}

func TestCompose(t *testing.T) {
	view := ApplyFilter(sampleListings(), allFilter())
	d := Compose(view, allFilter(), 2)

	if d.Total != len(view) {
		t.Errorf("Total: got %d, want %d", d.Total, len(view))
	}
	if len(d.TopHosts) != 2 {
		t.Errorf("TopHosts: got %d, want 2", len(d.TopHosts))
	}
	if len(d.Scatter) != len(view) {
		t.Errorf("Scatter: got %d, want %d", len(d.Scatter), len(view))
	}
	for _, g := range d.PriceByRoomType {
		if g.Box.Median == 0 {
			t.Errorf("group %q has no box summary", g.RoomType)
		}
	}
	if d.Insights == nil || d.Insights.TotalListings != len(view) {
		t.Errorf("Insights: got %+v", d.Insights)
	}
}

func TestComposeEmptyView(t *testing.T) {
	d := Compose([]models.Listing{}, models.FilterSpec{}, 10)
	if d.Total != 0 || len(d.ByBorough) != 0 || len(d.ByRoomType) != 0 ||
		len(d.PriceByRoomType) != 0 || len(d.Scatter) != 0 || len(d.TopHosts) != 0 {
		t.Errorf("empty view should give empty charts, got %+v", d)
	}
}

func newTestDashboards(t *testing.T, src *fakeSource) (*Store, *DashboardService) {
	t.Helper()
	store := NewStore(src, 500, newTestLogger())
	svc := NewDashboardService(store, 10, time.Minute, newTestLogger())
	t.Cleanup(svc.Close)
	return store, svc
}

func TestDashboardServiceCaches(t *testing.T) {
	src := &fakeSource{listings: sampleListings()}
	_, svc := newTestDashboards(t, src)
	ctx := context.Background()

	first, err := svc.Build(ctx, allFilter())
	if err != nil {
		t.Fatal(err)
	}

	reordered := allFilter()
	reordered.Boroughs = []string{"Queens", "Brooklyn", "Manhattan", "Queens"}
	second, err := svc.Build(ctx, reordered)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("equivalent filters should share a cached dashboard")
	}

	narrow := allFilter()
	narrow.MaxPrice = 100
	third, err := svc.Build(ctx, narrow)
	if err != nil {
		t.Fatal(err)
	}
	if third == first {
		t.Error("different filters should not share a cache entry")
	}
	if third.Total != 3 {
		t.Errorf("Total at max_price=100: got %d, want 3", third.Total)
	}
}

func TestDashboardServiceDropsCacheOnChange(t *testing.T) {
	src := &fakeSource{listings: sampleListings()}
	store, svc := newTestDashboards(t, src)
	ctx := context.Background()

	before, err := svc.Build(ctx, allFilter())
	if err != nil {
		t.Fatal(err)
	}
	if svc.cache.Len() != 1 {
		t.Fatalf("cache len: got %d, want 1", svc.cache.Len())
	}

	src.set(sampleListings()[:2], nil)
	store.Invalidate()
	if svc.cache.Len() != 0 {
		t.Errorf("cache len after invalidate: got %d, want 0", svc.cache.Len())
	}

	after, err := svc.Build(ctx, allFilter())
	if err != nil {
		t.Fatal(err)
	}
	if after == before || after.Total != 2 {
		t.Errorf("expected a rebuilt dashboard with 2 listings, got %d", after.Total)
	}
}

func TestDashboardServiceView(t *testing.T) {
	_, svc := newTestDashboards(t, &fakeSource{listings: sampleListings()})
	spec := allFilter()
	spec.RoomTypes = []string{"Shared room"}

	view, err := svc.View(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}
	if len(view) != 1 || view[0].Name != "Couch" {
		t.Errorf("View: got %+v", view)
	}
}

func TestCacheKey(t *testing.T) {
	a := models.FilterSpec{Boroughs: []string{"Queens", "Bronx"}, RoomTypes: []string{"Private room"}, MaxPrice: 120}
	b := models.FilterSpec{Boroughs: []string{"Bronx", "Queens", "Bronx"}, RoomTypes: []string{"Private room"}, MaxPrice: 120}
	if cacheKey(a, 1) != cacheKey(b, 1) {
		t.Errorf("canonical keys differ: %q vs %q", cacheKey(a, 1), cacheKey(b, 1))
	}
	if cacheKey(a, 1) == cacheKey(a, 2) {
		t.Error("keys should include the dataset version")
	}

	empty := models.FilterSpec{MaxPrice: 120}
	if cacheKey(empty, 1) == cacheKey(a, 1) {
		t.Error("empty selection should not collide with a populated one")
	}
}
