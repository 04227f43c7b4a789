package earth

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/echoflaresat/flightglobe/geo"
)

func TestSubsolarPointRejectsNonUTC(t *testing.T) {
	loc := time.FixedZone("PDT", -7*3600)
	_, err := SubsolarPoint(time.Date(2021, 7, 2, 18, 50, 0, 0, loc))
	if !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("expected ErrInvalidTime, got %v", err)
	}
}

func TestSubsolarPointLatitudeBounds(t *testing.T) {
	// The sub-solar latitude is the solar declination, bounded by the
	// obliquity of the ecliptic.
	for month := time.January; month <= time.December; month++ {
		at := time.Date(2024, month, 15, 12, 0, 0, 0, time.UTC)
		sub, err := SubsolarPoint(at)
		if err != nil {
			t.Fatalf("SubsolarPoint(%s): %v", at, err)
		}
		if math.Abs(sub.Lat) > 23.5 {
			t.Errorf("%s: sub-solar latitude %v exceeds obliquity", at, sub.Lat)
		}
		if sub.Lon <= -180 || sub.Lon > 180 {
			t.Errorf("%s: sub-solar longitude %v not in (-180, 180]", at, sub.Lon)
		}
	}
}

func TestSubsolarPointEquinoxAndSolstice(t *testing.T) {
	// March 2024 equinox: 2024-03-20 03:06 UTC, declination ~0.
	sub, err := SubsolarPoint(time.Date(2024, 3, 20, 3, 6, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("SubsolarPoint: %v", err)
	}
	if math.Abs(sub.Lat) > 0.1 {
		t.Errorf("equinox sub-solar latitude = %v, want ~0", sub.Lat)
	}

	// June 2024 solstice: 2024-06-20 20:51 UTC, declination ~+23.44.
	sub, err = SubsolarPoint(time.Date(2024, 6, 20, 20, 51, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("SubsolarPoint: %v", err)
	}
	if math.Abs(sub.Lat-23.44) > 0.05 {
		t.Errorf("solstice sub-solar latitude = %v, want ~23.44", sub.Lat)
	}
}

func TestSubsolarPointNoonNearGreenwich(t *testing.T) {
	// Near 12:00 UTC the sun sits close to the Greenwich meridian;
	// the equation of time keeps it within a few degrees.
	sub, err := SubsolarPoint(time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("SubsolarPoint: %v", err)
	}
	if math.Abs(sub.Lon) > 5 {
		t.Errorf("noon sub-solar longitude = %v, want within ±5", sub.Lon)
	}
}

func TestSubsolarPointDriftsWestward(t *testing.T) {
	// Earth rotates east, so the sub-solar point moves west by about
	// 0.25° per minute.
	base := time.Date(2024, 4, 15, 14, 0, 0, 0, time.UTC)
	a, err := SubsolarPoint(base)
	if err != nil {
		t.Fatalf("SubsolarPoint: %v", err)
	}
	b, err := SubsolarPoint(base.Add(time.Minute))
	if err != nil {
		t.Fatalf("SubsolarPoint: %v", err)
	}
	drift := b.Lon - a.Lon
	if drift > -0.2 || drift < -0.3 {
		t.Errorf("per-minute drift = %v, want about -0.25", drift)
	}
}

func TestSurfaceDistance(t *testing.T) {
	sfo := geo.Point{Lat: 37.6213, Lon: -122.3790}
	hnd := geo.Point{Lat: 35.5494, Lon: 139.7798}
	km, err := SurfaceDistance(sfo, hnd)
	if err != nil {
		t.Fatalf("SurfaceDistance: %v", err)
	}
	// Published SFO-HND great-circle distance is about 8270 km; the
	// spherical approximation lands within a few tens of km of that.
	if math.Abs(km-8270) > 50 {
		t.Errorf("SFO-HND distance = %.0f km, want ~8270", km)
	}

	if _, err := SurfaceDistance(geo.Point{Lat: 91}, hnd); err == nil {
		t.Error("expected error for out-of-range latitude")
	}
}

func TestSunDirectionECEFAgreesWithSubsolarPoint(t *testing.T) {
	at := time.Date(2024, 8, 8, 9, 23, 0, 0, time.UTC)
	sub, err := SubsolarPoint(at)
	if err != nil {
		t.Fatalf("SubsolarPoint: %v", err)
	}
	dir, err := SunDirectionECEF(at)
	if err != nil {
		t.Fatalf("SunDirectionECEF: %v", err)
	}
	lat, lon := dir.LatLon()
	if math.Abs(lat-sub.Lat) > 1e-9 || math.Abs(lon-sub.Lon) > 1e-9 {
		t.Errorf("direction (%v, %v) disagrees with point %v", lat, lon, sub)
	}
	if math.Abs(dir.Norm()-1) > 1e-12 {
		t.Errorf("direction is not unit length: %v", dir.Norm())
	}
}
