package reliability

import "testing"

func TestPenalize(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{100, 95},
		{95, 90},
		{50, 48}, // 47.5 rounds up
		{10, 10}, // 9.5 rounds up, small scores decay slowly
		{1, 1},
		{0, 0},
		{-3, 0},
	}
	for _, tt := range tests {
		if got := Penalize(tt.score); got != tt.want {
			t.Errorf("Penalize(%d) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestBoost(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{0, 1},
		{42, 43},
		{99, 100},
		{100, 100},
		{120, 100}, // out-of-range input clamps back to the cap
	}
	for _, tt := range tests {
		if got := Boost(tt.score); got != tt.want {
			t.Errorf("Boost(%d) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestRepeatedPenaltiesFloorAtZero(t *testing.T) {
	score := 100
	for i := 0; i < 500; i++ {
		score = Penalize(score)
		if score < 0 {
			t.Fatalf("score went negative after %d penalties", i+1)
		}
	}
}
