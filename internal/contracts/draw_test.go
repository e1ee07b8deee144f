package contracts

import (
	"testing"
	"time"
)

func TestNewNumberSet(t *testing.T) {
	tests := []struct {
		name    string
		in      []int
		want    []int
		wantErr bool
	}{
		{
			name: "valid unsorted",
			in:   []int{22, 3, 39, 7, 15},
			want: []int{3, 7, 15, 22, 39},
		},
		{
			name:    "too few",
			in:      []int{1, 2, 3, 4},
			wantErr: true,
		},
		{
			name:    "too many",
			in:      []int{1, 2, 3, 4, 5, 6},
			wantErr: true,
		},
		{
			name:    "out of range high",
			in:      []int{1, 2, 3, 4, 40},
			wantErr: true,
		},
		{
			name:    "out of range low",
			in:      []int{0, 2, 3, 4, 5},
			wantErr: true,
		},
		{
			name:    "duplicate",
			in:      []int{7, 7, 3, 4, 5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewNumberSet(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewNumberSet(%v) expected error, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewNumberSet(%v) unexpected error: %v", tt.in, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("NewNumberSet(%v) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("NewNumberSet(%v) = %v, want %v", tt.in, got, tt.want)
					break
				}
			}
		})
	}
}

func TestNewDrawRecord_NormalizesDate(t *testing.T) {
	drawn := time.Date(2026, 8, 20, 18, 35, 0, 0, time.UTC)
	rec, err := NewDrawRecord(drawn, []int{1, 5, 9, 20, 33})
	if err != nil {
		t.Fatalf("NewDrawRecord: %v", err)
	}

	if rec.Key() != "2026-08-20" {
		t.Errorf("Key() = %s, want 2026-08-20", rec.Key())
	}
	if !rec.DrawDate.Equal(time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("DrawDate not truncated to midnight: %v", rec.DrawDate)
	}
}

func TestNewPredictionRecord(t *testing.T) {
	date := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	rec, err := NewPredictionRecord(date, StrategyHot, []int{10, 33, 6, 14, 25}, 42)
	if err != nil {
		t.Fatalf("NewPredictionRecord: %v", err)
	}

	if rec.Scored() {
		t.Error("new record must be unscored")
	}
	if rec.Key() != "2026-08-20/hot" {
		t.Errorf("Key() = %s, want 2026-08-20/hot", rec.Key())
	}
	if rec.Seed != 42 {
		t.Errorf("Seed = %d, want 42", rec.Seed)
	}

	// unknown strategy rejected
	if _, err := NewPredictionRecord(date, StrategyID("mystery"), []int{1, 2, 3, 4, 5}, 0); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestChanceExpectation(t *testing.T) {
	got := ChanceExpectation()
	want := 25.0 / 39.0
	epsilon := 1e-9
	if diff := got - want; diff > epsilon || diff < -epsilon {
		t.Errorf("ChanceExpectation() = %v, want %v", got, want)
	}
}
