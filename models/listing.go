package models

// Column names of the listings CSV.
const (
	ColID                 = "id"
	ColName               = "name"
	ColHostName           = "host_name"
	ColNeighbourhoodGroup = "neighbourhood_group"
	ColNeighbourhood      = "neighbourhood"
	ColLatitude           = "latitude"
	ColLongitude          = "longitude"
	ColRoomType           = "room_type"
	ColPrice              = "price"
	ColAvailability365    = "availability_365"
	ColNumberOfReviews    = "number_of_reviews"
)

// RequiredColumns must all be present in the dataset header.
var RequiredColumns = []string{
	ColName, ColHostName, ColNeighbourhoodGroup, ColRoomType,
	ColPrice, ColAvailability365, ColNumberOfReviews,
}

// RawListing holds the cells of one dataset row before cleaning.
// Missing cells (empty, NA, NaN) are represented as "".
type RawListing struct {
	ID                 string
	Name               string
	HostName           string
	NeighbourhoodGroup string
	Neighbourhood      string
	Latitude           string
	Longitude          string
	RoomType           string
	Price              string
	Availability365    string
	NumberOfReviews    string
}

// Listing is one cleaned rental unit. Listings are never mutated after load.
type Listing struct {
	ID                 int64   `json:"id,omitempty"`
	Name               string  `json:"name"`
	HostName           string  `json:"host_name"`
	NeighbourhoodGroup string  `json:"neighbourhood_group"`
	Neighbourhood      string  `json:"neighbourhood,omitempty"`
	Latitude           float64 `json:"latitude,omitempty"`
	Longitude          float64 `json:"longitude,omitempty"`
	RoomType           string  `json:"room_type"`
	Price              float64 `json:"price"`
	Availability365    int     `json:"availability_365"`
	NumberOfReviews    int     `json:"number_of_reviews"`
}

// Field returns the categorical value of l for a column name, and false if
// the column is not categorical.
func (l Listing) Field(column string) (string, bool) {
	switch column {
	case ColNeighbourhoodGroup:
		return l.NeighbourhoodGroup, true
	case ColRoomType:
		return l.RoomType, true
	case ColHostName:
		return l.HostName, true
	case ColName:
		return l.Name, true
	case ColNeighbourhood:
		return l.Neighbourhood, true
	}
	return "", false
}
