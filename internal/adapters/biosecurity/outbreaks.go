package biosecurity

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"
)

// Outbreak is one county-level HPAI detection record.
type Outbreak struct {
	CountyFIPS string
	FirstSeen  time.Time
}

// LoadOutbreaks reads outbreak records from a CSV file with header columns
// county_fips and first_seen_iso. A missing file is not an error: the
// scorer degrades to "no data available".
func LoadOutbreaks(path string) ([]Outbreak, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("biosecurity: open %s: %w", path, err)
	}
	defer f.Close()
	return ParseOutbreaks(f)
}

// ParseOutbreaks parses outbreak CSV records from a reader.
func ParseOutbreaks(r io.Reader) ([]Outbreak, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("biosecurity: read csv header: %w", err)
	}

	fipsCol, seenCol := -1, -1
	for i, name := range header {
		switch name {
		case "county_fips":
			fipsCol = i
		case "first_seen_iso":
			seenCol = i
		}
	}
	if fipsCol < 0 || seenCol < 0 {
		return nil, fmt.Errorf("biosecurity: csv missing county_fips/first_seen_iso columns")
	}

	var outbreaks []Outbreak
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("biosecurity: read csv line %d: %w", line, err)
		}
		seen, err := time.Parse(time.RFC3339, record[seenCol])
		if err != nil {
			// Date-only records are common in the source data.
			seen, err = time.Parse("2006-01-02", record[seenCol])
			if err != nil {
				return nil, fmt.Errorf("biosecurity: csv line %d: bad first_seen_iso %q", line, record[seenCol])
			}
		}
		outbreaks = append(outbreaks, Outbreak{CountyFIPS: record[fipsCol], FirstSeen: seen})
	}
	return outbreaks, nil
}
