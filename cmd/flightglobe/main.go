package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/echoflaresat/flightglobe/airports"
	"github.com/echoflaresat/flightglobe/anim"
	"github.com/echoflaresat/flightglobe/earth"
	"github.com/echoflaresat/flightglobe/flight"
	"github.com/echoflaresat/flightglobe/geo"
	"github.com/echoflaresat/flightglobe/render"
	"github.com/echoflaresat/flightglobe/terminator"
	"github.com/echoflaresat/flightglobe/texture"
)

type config struct {
	airportsCSV *string
	from, to    *string
	depart      *string
	arrive      *string

	day, night *string
	mapWidth   *int

	size, supersample *int
	fps, workers      *int
	cacheSize         *int

	framesDir *string
	out       *string

	showHelp *bool
}

func defineFlags() config {
	return config{
		airportsCSV: flag.String("airports", "", "Airport database CSV (OpenFlights layout); omit to pass raw coordinates"),
		from:        flag.String("from", "", "Departure airport name, or \"lat,lon\" in degrees"),
		to:          flag.String("to", "", "Arrival airport name, or \"lat,lon\" in degrees"),
		depart:      flag.String("depart", "", "Departure time: airport-local \"July 2, 2021, 6:50 PM\" with -airports, else RFC3339 UTC"),
		arrive:      flag.String("arrive", "", "Arrival time, same format as -depart"),

		day:      flag.String("day", "assets/earth_day.jpg", "Day texture path (equirectangular)"),
		night:    flag.String("night", "assets/earth_night.jpg", "Night texture path (equirectangular)"),
		mapWidth: flag.Int("map-width", 3600, "Blended map width in samples (height is half)"),

		size:        flag.Int("size", 640, "Output frame size (width/height in pixels)"),
		supersample: flag.Int("supersample", 2, "Supersampling factor (higher is slower but smoother)"),
		fps:         flag.Int("fps", 24, "Output video frame rate"),
		workers:     flag.Int("workers", 0, "Concurrent frame renders (0 = number of CPUs)"),
		cacheSize:   flag.Int("cache", 16, "Blended maps kept in the memoization cache"),

		framesDir: flag.String("frames-dir", "frames", "Directory for intermediate PNG frames"),
		out:       flag.String("out", "flight.mp4", "Output video path"),

		showHelp: flag.Bool("h", false, "Show this help message"),
	}
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `Flight Globe - Day/Night Flight Animation Generator

Usage:
  %[1]s [options]

`, os.Args[0])

	printGroup("Flight Options", []string{"airports", "from", "to", "depart", "arrive"})
	printGroup("Map Options", []string{"day", "night", "map-width"})
	printGroup("Rendering Options", []string{"size", "supersample", "fps", "workers", "cache"})
	printGroup("Output", []string{"frames-dir", "out"})
	printGroup("Misc", []string{"h"})
}

func printGroup(title string, keys []string) {
	fmt.Fprintf(os.Stderr, "%s:\n", title)
	for _, name := range keys {
		if f := flag.Lookup(name); f != nil {
			fmt.Fprintf(os.Stderr, "  -%-12s %s (default %q)\n", f.Name, f.Usage, f.DefValue)
		}
	}
	fmt.Fprintln(os.Stderr)
}

func main() {
	cfg := defineFlags()
	flag.Usage = printHelp
	flag.Parse()

	if *cfg.showHelp {
		printHelp()
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(cfg, logger); err != nil {
		logger.Error("animation failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config, logger *slog.Logger) error {
	dep, arr, departAt, arriveAt, err := resolveFlight(cfg)
	if err != nil {
		return err
	}

	plan, err := flight.NewPlan(dep, arr, departAt, arriveAt)
	if err != nil {
		return err
	}
	km, err := earth.SurfaceDistance(dep, arr)
	if err != nil {
		return err
	}
	logger.Info("flight planned",
		"departure", fmt.Sprintf("%.2f,%.2f", dep.Lat, dep.Lon),
		"arrival", fmt.Sprintf("%.2f,%.2f", arr.Lat, arr.Lon),
		"distance_km", fmt.Sprintf("%.0f", km),
		"frames", plan.FrameCount())

	w := *cfg.mapWidth
	day, err := loadScaled(*cfg.day, w, w/2)
	if err != nil {
		return err
	}
	night, err := loadScaled(*cfg.night, w, w/2)
	if err != nil {
		return err
	}
	builder, err := terminator.New(day, night, *cfg.cacheSize)
	if err != nil {
		return err
	}

	exporter := &anim.Exporter{
		Plan:    plan,
		Builder: builder,
		Opts: render.Options{
			Size:        *cfg.size,
			Supersample: *cfg.supersample,
			Theme:       render.DefaultTheme(),
		},
		FPS:     *cfg.fps,
		Workers: *cfg.workers,
		Logger:  logger,
	}
	return exporter.Export(context.Background(), *cfg.framesDir, *cfg.out)
}

// resolveFlight turns the flag values into endpoints and UTC times,
// through the airport database when one is given.
func resolveFlight(cfg config) (dep, arr geo.Point, departAt, arriveAt time.Time, err error) {
	if *cfg.from == "" || *cfg.to == "" || *cfg.depart == "" || *cfg.arrive == "" {
		err = fmt.Errorf("-from, -to, -depart and -arrive are required")
		return
	}

	if *cfg.airportsCSV == "" {
		if dep, err = parseCoords(*cfg.from); err != nil {
			return
		}
		if arr, err = parseCoords(*cfg.to); err != nil {
			return
		}
		if departAt, err = parseUTC(*cfg.depart); err != nil {
			return
		}
		arriveAt, err = parseUTC(*cfg.arrive)
		return
	}

	db, err := airports.Load(*cfg.airportsCSV)
	if err != nil {
		return
	}
	origin, err := db.Find(*cfg.from)
	if err != nil {
		return
	}
	dest, err := db.Find(*cfg.to)
	if err != nil {
		return
	}
	dep, arr = origin.Point(), dest.Point()
	if departAt, err = origin.ParseLocal(*cfg.depart); err != nil {
		return
	}
	arriveAt, err = dest.ParseLocal(*cfg.arrive)
	return
}

func parseCoords(s string) (geo.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geo.Point{}, fmt.Errorf("coordinates %q: want \"lat,lon\"", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("coordinates %q: %w", s, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("coordinates %q: %w", s, err)
	}
	p := geo.Point{Lat: lat, Lon: lon}
	return p, p.Validate()
}

func parseUTC(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q: %w (want RFC3339, e.g. 2021-07-03T01:50:00Z)", s, err)
	}
	return t.UTC(), nil
}

func loadScaled(path string, w, h int) (*texture.Image, error) {
	img, err := texture.Load(path)
	if err != nil {
		return nil, err
	}
	return img.Scaled(w, h), nil
}
