package model

import "fmt"

// Location names one of the five fixed inventory sub-stocks. The value is the
// CSV column that holds its quantity.
type Location string

const (
	LocationCapital   Location = "locationCapital"
	LocationWorldTyre Location = "locationWorldTyre"
	LocationUniversal Location = "locationUniversal"
	LocationStore1    Location = "locationStore1"
	LocationStore2    Location = "locationStore2"
)

// Locations lists every location in column order.
var Locations = []Location{
	LocationCapital,
	LocationWorldTyre,
	LocationUniversal,
	LocationStore1,
	LocationStore2,
}

var locationLabels = map[Location]string{
	LocationCapital:   "Capital",
	LocationWorldTyre: "World Tyre",
	LocationUniversal: "Universal",
	LocationStore1:    "Store-1",
	LocationStore2:    "Store-2",
}

// Valid reports whether l is one of the five known locations.
func (l Location) Valid() bool {
	_, ok := locationLabels[l]
	return ok
}

// Label returns the human-readable name, e.g. "World Tyre".
func (l Location) Label() string {
	if label, ok := locationLabels[l]; ok {
		return label
	}
	return string(l)
}

// ParseLocation accepts either the column name ("locationStore1") or the
// label ("Store-1").
func ParseLocation(s string) (Location, error) {
	if Location(s).Valid() {
		return Location(s), nil
	}
	for loc, label := range locationLabels {
		if label == s {
			return loc, nil
		}
	}
	return "", fmt.Errorf("unknown location %q", s)
}
