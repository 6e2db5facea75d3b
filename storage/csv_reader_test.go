package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `id,name,host_id,host_name,neighbourhood_group,neighbourhood,latitude,longitude,room_type,price,minimum_nights,number_of_reviews,availability_365
2539,Clean & quiet apt home by the park,2787,John,Brooklyn,Kensington,40.64749,-73.97237,Private room,149,1,9,365
2595,Skylit Midtown Castle,2845,Jennifer,Manhattan,Midtown,40.75362,-73.98377,Entire home/apt,225,1,45,355
3647,"THE VILLAGE OF HARLEM, NEW YORK !",4632,NA,Manhattan,Harlem,40.80902,-73.9419,Private room,150,3,0,365
3831,Cozy Entire Floor of Brownstone,4869,LisaRoxanne,Brooklyn,Clinton Hill,40.68514,-73.95976,Entire home/apt,89,1,270,194
`

func TestParseRaw(t *testing.T) {
	rows, err := ParseRaw(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseRaw: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows: got %d, want 4", len(rows))
	}

	first := rows[0]
	if first.ID != "2539" || first.HostName != "John" || first.NeighbourhoodGroup != "Brooklyn" {
		t.Errorf("first row: got %+v", first)
	}
	if first.Price != "149" || first.Availability365 != "365" || first.NumberOfReviews != "9" {
		t.Errorf("first row numerics: got price %q availability %q reviews %q",
			first.Price, first.Availability365, first.NumberOfReviews)
	}
	if rows[2].Name != "THE VILLAGE OF HARLEM, NEW YORK !" {
		t.Errorf("quoted name: got %q", rows[2].Name)
	}
	if rows[2].HostName != "" {
		t.Errorf("NA host name should load as empty, got %q", rows[2].HostName)
	}
	if rows[3].Price != "89" {
		t.Errorf("price should keep its text form, got %q", rows[3].Price)
	}
}

func TestParseRawMissingColumn(t *testing.T) {
	input := "id,name,host_name,neighbourhood_group,room_type,availability_365,number_of_reviews\n" +
		"1,Room,Ann,Queens,Private room,10,2\n"

	_, err := ParseRaw(strings.NewReader(input))
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	if !strings.Contains(err.Error(), "price") {
		t.Errorf("error should name the column: %v", err)
	}
}

func TestCSVReaderReadRaw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "AB_NYC_2019.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewCSVReader(path)
	if r.Path() != path {
		t.Errorf("Path: got %q, want %q", r.Path(), path)
	}
	rows, err := r.ReadRaw(context.Background())
	if err != nil {
		t.Fatalf("ReadRaw: %v", err)
	}
	if len(rows) != 4 {
		t.Errorf("rows: got %d, want 4", len(rows))
	}
}

func TestCSVReaderMissingFile(t *testing.T) {
	_, err := NewCSVReader(filepath.Join(t.TempDir(), "missing.csv")).ReadRaw(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestCSVReaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewCSVReader("unused.csv").ReadRaw(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
