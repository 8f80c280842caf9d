package timeslot

import (
	"testing"
	"time"
)

var base = time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return time.Date(2024, 3, 11, h, m, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    Interval
		b    Interval
		want bool
	}{
		{
			name: "identical intervals",
			a:    Interval{at(9, 0), at(10, 0)},
			b:    Interval{at(9, 0), at(10, 0)},
			want: true,
		},
		{
			name: "zero-gap adjacency is legal",
			a:    Interval{at(9, 0), at(10, 0)},
			b:    Interval{at(10, 0), at(11, 0)},
			want: false,
		},
		{
			name: "zero-gap adjacency reversed",
			a:    Interval{at(10, 0), at(11, 0)},
			b:    Interval{at(9, 0), at(10, 0)},
			want: false,
		},
		{
			name: "partial overlap",
			a:    Interval{at(9, 0), at(10, 0)},
			b:    Interval{at(9, 30), at(11, 0)},
			want: true,
		},
		{
			name: "strict containment",
			a:    Interval{at(9, 0), at(12, 0)},
			b:    Interval{at(10, 0), at(11, 0)},
			want: true,
		},
		{
			name: "container seen from the inside",
			a:    Interval{at(10, 0), at(11, 0)},
			b:    Interval{at(9, 0), at(12, 0)},
			want: true,
		},
		{
			name: "disjoint with gap",
			a:    Interval{at(9, 0), at(10, 0)},
			b:    Interval{at(14, 0), at(15, 0)},
			want: false,
		},
		{
			name: "one minute of overlap",
			a:    Interval{at(9, 0), at(10, 0)},
			b:    Interval{at(9, 59), at(11, 0)},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// overlap is symmetric
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v (symmetry)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestOverlapsFreeFunction(t *testing.T) {
	if !Overlaps(at(9, 0), at(10, 0), at(9, 0), at(10, 0)) {
		t.Error("identical ranges must overlap")
	}
	if Overlaps(at(9, 0), at(10, 0), at(10, 0), at(11, 0)) {
		t.Error("touching boundary must not overlap")
	}
}

func TestFromMinutes(t *testing.T) {
	iv := FromMinutes(base, 45)
	if !iv.Start.Equal(base) {
		t.Errorf("Start = %v, want %v", iv.Start, base)
	}
	if want := base.Add(45 * time.Minute); !iv.End.Equal(want) {
		t.Errorf("End = %v, want %v", iv.End, want)
	}
}

func TestWiden(t *testing.T) {
	iv := Interval{at(9, 0), at(10, 0)}.Widen(24 * time.Hour)
	if want := at(9, 0).Add(-24 * time.Hour); !iv.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", iv.Start, want)
	}
	if want := at(10, 0).Add(24 * time.Hour); !iv.End.Equal(want) {
		t.Errorf("End = %v, want %v", iv.End, want)
	}
}

func TestDay(t *testing.T) {
	day := Day(time.Date(2024, 3, 11, 17, 42, 13, 0, time.UTC))

	if want := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC); !day.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", day.Start, want)
	}
	if want := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC); !day.End.Equal(want) {
		t.Errorf("End = %v, want %v", day.End, want)
	}

	if !day.Contains(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)) {
		t.Error("midnight belongs to its own day")
	}
	if day.Contains(time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)) {
		t.Error("next midnight belongs to the next day")
	}
}
