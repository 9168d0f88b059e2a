package geo

import (
	"math"
	"testing"
	"time"
)

func TestDistance(t *testing.T) {
	parisNorthEnd := Point{Latitude: 48.8566, Longitude: 2.3522}
	londonCharingX := Point{Latitude: 51.5074, Longitude: -0.1278}

	tests := []struct {
		name      string
		a, b      Point
		want      float64 // meters
		tolerance float64
	}{
		{
			name:      "same point is zero",
			a:         parisNorthEnd,
			b:         parisNorthEnd,
			want:      0,
			tolerance: 0.001,
		},
		{
			name:      "paris to london",
			a:         parisNorthEnd,
			b:         londonCharingX,
			want:      343_500,
			tolerance: 1_000,
		},
		{
			name:      "one degree of latitude at the equator",
			a:         Point{Latitude: 0, Longitude: 0},
			b:         Point{Latitude: 1, Longitude: 0},
			want:      111_195,
			tolerance: 50,
		},
		{
			name:      "short hop across a court",
			a:         Point{Latitude: 40.7128, Longitude: -74.0060},
			b:         Point{Latitude: 40.7129, Longitude: -74.0060},
			want:      11.1,
			tolerance: 0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Fatalf("Distance() = %v, want %v (±%v)", got, tt.want, tt.tolerance)
			}
			// Distance must be symmetric.
			if back := Distance(tt.b, tt.a); math.Abs(got-back) > 1e-9 {
				t.Fatalf("Distance() asymmetric: %v vs %v", got, back)
			}
		})
	}
}

func TestWithinRadius(t *testing.T) {
	court := Point{Latitude: 40.7128, Longitude: -74.0060}
	nearby := Point{Latitude: 40.7130, Longitude: -74.0062} // ~28m away
	farAway := Point{Latitude: 40.7300, Longitude: -74.0060}

	if !WithinRadius(nearby, court, 500) {
		t.Fatal("expected a point ~28m away to be within a 500m radius")
	}
	if WithinRadius(farAway, court, 500) {
		t.Fatal("expected a point ~1.9km away to be outside a 500m radius")
	}
}

func TestWithinWindow(t *testing.T) {
	start := time.Date(2026, time.March, 14, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		now    time.Time
		window time.Duration
		want   bool
	}{
		{"exactly at start", start, 15 * time.Minute, true},
		{"window lower bound", start.Add(-15 * time.Minute), 15 * time.Minute, true},
		{"window upper bound", start.Add(15 * time.Minute), 15 * time.Minute, true},
		{"just before the window opens", start.Add(-15*time.Minute - time.Second), 15 * time.Minute, false},
		{"just after the window closes", start.Add(15*time.Minute + time.Second), 15 * time.Minute, false},
		{"twenty minutes early with the default window", start.Add(-20 * time.Minute), 15 * time.Minute, false},
		{"twenty minutes early with a wider window", start.Add(-20 * time.Minute), 30 * time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinWindow(tt.now, start, tt.window); got != tt.want {
				t.Fatalf("WithinWindow(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestTimeUntilWindowOpens(t *testing.T) {
	start := time.Date(2026, time.March, 14, 18, 0, 0, 0, time.UTC)
	window := 15 * time.Minute

	if got := TimeUntilWindowOpens(start.Add(-time.Hour), start, window); got != 45*time.Minute {
		t.Fatalf("TimeUntilWindowOpens() = %v, want 45m", got)
	}
	if got := TimeUntilWindowOpens(start.Add(-10*time.Minute), start, window); got != 0 {
		t.Fatalf("TimeUntilWindowOpens() inside window = %v, want 0", got)
	}
	if got := TimeUntilWindowOpens(start.Add(time.Hour), start, window); got != 0 {
		t.Fatalf("TimeUntilWindowOpens() after start = %v, want 0", got)
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		meters float64
		want   string
	}{
		{0, "0m"},
		{523.4, "523m"},
		{999.4, "999m"},
		{1000, "1.0km"},
		{1234, "1.2km"},
		{12345, "12.3km"},
	}
	for _, tt := range tests {
		if got := FormatDistance(tt.meters); got != tt.want {
			t.Errorf("FormatDistance(%v) = %q, want %q", tt.meters, got, tt.want)
		}
	}
}
