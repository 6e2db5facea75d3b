package storage

import (
	"strings"
	"testing"

	"airbnb-dashboard/models"
)

func TestBuildInsert(t *testing.T) {
	batch := []models.Listing{
		{ID: 1, Name: "A", HostName: "Ann", NeighbourhoodGroup: "Queens", RoomType: "Private room", Price: 50},
		{ID: 2, Name: "B", HostName: "Bob", NeighbourhoodGroup: "Bronx", RoomType: "Shared room", Price: 35},
	}

	query, args := buildInsert(batch)
	if len(args) != len(batch)*insertColumns {
		t.Errorf("args: got %d, want %d", len(args), len(batch)*insertColumns)
	}
	if !strings.Contains(query, "($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)") {
		t.Errorf("first placeholder group missing in %s", query)
	}
	if !strings.Contains(query, "($12,") || !strings.Contains(query, "$22)") {
		t.Errorf("second placeholder group wrong in %s", query)
	}
	if args[insertColumns+1] != "B" {
		t.Errorf("second row name arg: got %v", args[insertColumns+1])
	}
}
