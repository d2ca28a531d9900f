// Package geo holds the coarse state-centroid and FIPS lookups the pillar
// adapters use to place weather queries.
package geo

// Approximate centroids for the corn-belt states the adapters care about.
var stateCoords = map[string][2]float64{
	"IL": {40.0, -89.0},
	"IA": {42.0, -93.5},
	"IN": {40.0, -86.0},
	"OH": {40.5, -82.5},
	"NE": {41.5, -99.5},
	"KS": {38.5, -98.0},
	"MO": {38.5, -92.5},
	"MN": {46.0, -94.0},
}

var fipsToState = map[string]string{
	"17": "IL",
	"19": "IA",
	"18": "IN",
	"39": "OH",
	"31": "NE",
	"20": "KS",
	"29": "MO",
	"27": "MN",
}

// StateCoords returns the approximate center of a US state, defaulting to
// the center of the country for unknown states.
func StateCoords(state string) (lat, lon float64) {
	if c, ok := stateCoords[state]; ok {
		return c[0], c[1]
	}
	return 39.0, -98.0
}

// StateFromFIPSPrefix maps a 2-digit county-FIPS prefix to its state
// abbreviation, or "" when unknown.
func StateFromFIPSPrefix(prefix string) string {
	return fipsToState[prefix]
}
