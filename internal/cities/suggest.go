package cities

import (
	"slices"
	"strings"
)

// PopularCities is the catalogue offered when adding a city.
var PopularCities = []string{
	"Mumbai", "Delhi", "Bangalore", "Pune", "Chennai",
	"Kolkata", "Hyderabad", "Ahmedabad", "Jaipur", "Surat",
	"Lucknow", "Kanpur", "Nagpur", "Indore", "Thane",
	"Bhopal", "Visakhapatnam", "Patna", "Vadodara", "Ghaziabad",
}

// Suggest filters PopularCities by a case-insensitive substring match,
// leaving out cities already selected.
func Suggest(term string, selected []string) []string {
	needle := strings.ToLower(strings.TrimSpace(term))
	var out []string
	for _, city := range PopularCities {
		if slices.Contains(selected, city) {
			continue
		}
		if strings.Contains(strings.ToLower(city), needle) {
			out = append(out, city)
		}
	}
	return out
}
