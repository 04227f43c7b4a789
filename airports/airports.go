// Package airports looks up airport coordinates and timezones in a CSV
// database (OpenFlights column layout).
package airports

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/echoflaresat/flightglobe/geo"
)

// LocalTimeLayout is the human-friendly schedule format used on flag
// values and itineraries: "July 2, 2021, 6:50 PM".
const LocalTimeLayout = "January 2, 2006, 3:04 PM"

// Airport is one database row.
type Airport struct {
	Name     string
	City     string
	Country  string
	IATA     string
	ICAO     string
	Lat      float64
	Lon      float64
	Timezone string // IANA name, e.g. "America/Los_Angeles"
}

// Point returns the airport's coordinates.
func (a Airport) Point() geo.Point {
	return geo.Point{Lat: a.Lat, Lon: a.Lon}
}

// ParseLocal parses a schedule time written in the airport's local
// timezone and returns it in UTC.
func (a Airport) ParseLocal(value string) (time.Time, error) {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("airport %s timezone: %w", a.IATA, err)
	}
	t, err := time.ParseInLocation(LocalTimeLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", value, err)
	}
	return t.UTC(), nil
}

// NotFoundError reports a failed lookup together with the closest
// matching names, so a typo'd flag points at its likely fix.
type NotFoundError struct {
	Query       string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("airport %q not found", e.Query)
	if len(e.Suggestions) > 0 {
		msg += "; close matches:"
		for _, s := range e.Suggestions {
			msg += "\n   " + s
		}
	}
	return msg
}

// DB is an in-memory airport database.
type DB struct {
	byName map[string]Airport
	names  []string
}

// Load reads the database from a CSV file.
func Load(path string) (*DB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	db, err := LoadReader(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return db, nil
}

// LoadReader parses CSV rows with the OpenFlights column order:
// id, name, city, country, IATA, ICAO, lat, lon, altitude, offset,
// DST, timezone. A leading header row is skipped if present.
func LoadReader(r io.Reader) (*DB, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	db := &DB{byName: make(map[string]Airport)}
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(rec) < 12 {
			return nil, fmt.Errorf("row %d: %d columns, want at least 12", line, len(rec))
		}
		lat, latErr := strconv.ParseFloat(rec[6], 64)
		lon, lonErr := strconv.ParseFloat(rec[7], 64)
		if latErr != nil || lonErr != nil {
			if line == 1 {
				continue // header row
			}
			return nil, fmt.Errorf("row %d: bad coordinates %q, %q", line, rec[6], rec[7])
		}
		a := Airport{
			Name:     rec[1],
			City:     rec[2],
			Country:  rec[3],
			IATA:     rec[4],
			ICAO:     rec[5],
			Lat:      lat,
			Lon:      lon,
			Timezone: rec[11],
		}
		if err := a.Point().Validate(); err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", line, a.Name, err)
		}
		db.byName[a.Name] = a
		db.names = append(db.names, a.Name)
	}
	if len(db.names) == 0 {
		return nil, fmt.Errorf("no airports in database")
	}
	return db, nil
}

// Find returns the airport with the exact given name, or a
// NotFoundError listing up to five fuzzy-matched candidates.
func (db *DB) Find(name string) (Airport, error) {
	if a, ok := db.byName[name]; ok {
		return a, nil
	}
	ranks := fuzzy.RankFindNormalizedFold(name, db.names)
	sort.Sort(ranks)
	n := len(ranks)
	if n > 5 {
		n = 5
	}
	suggestions := make([]string, 0, n)
	for _, r := range ranks[:n] {
		suggestions = append(suggestions, r.Target)
	}
	return Airport{}, &NotFoundError{Query: name, Suggestions: suggestions}
}

// Len reports the number of airports loaded.
func (db *DB) Len() int { return len(db.names) }
