// Package listing turns the text of a listing page into a Record.
package listing

import (
	"fmt"
	"time"
)

// Record is the structured form of one listing page
type Record struct {
	URL          string         `json:"url"`
	ID           string         `json:"id,omitempty"`
	Cost         Field[int]     `json:"cost"`
	PricePerArea Field[float64] `json:"price_per_area"`
	Floor        Field[int]     `json:"floor"`
	IsTopFloor   bool           `json:"is_top_floor"`
	Area         Field[int]     `json:"area"`
	EnergyRating Field[string]  `json:"energy_rating"`
	ParkingSpots Field[int]     `json:"parking_spots"`
	Address      Field[string]  `json:"address"`
	Latitude     float64        `json:"latitude"`
	Longitude    float64        `json:"longitude"`
	ScrapedAt    time.Time      `json:"scraped_at"`
}

// String renders the record on one line
func (r Record) String() string {
	return fmt.Sprintf("%s | address: %s | cost: %s | floor: %s | top floor: %t | energy: %s | area: %s | parking: %s | lat: %.6f | lng: %.6f",
		r.URL, r.Address, r.Cost, r.Floor, r.IsTopFloor, r.EnergyRating, r.Area, r.ParkingSpots, r.Latitude, r.Longitude)
}
