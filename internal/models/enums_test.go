package models

import "testing"

func TestTierForScoreBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  MatchTier
	}{
		{"perfect score", 100, TierExcellent},
		{"excellent cutoff", 85, TierExcellent},
		{"just below excellent", 84.99, TierGood},
		{"good cutoff", 70, TierGood},
		{"just below good", 69.99, TierFair},
		{"fair cutoff", 50, TierFair},
		{"just below fair", 49.99, TierPoor},
		{"zero score", 0, TierPoor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TierForScore(tt.score); got != tt.want {
				t.Errorf("TierForScore(%v) = %q, want %q", tt.score, got, tt.want)
			}
		})
	}
}
