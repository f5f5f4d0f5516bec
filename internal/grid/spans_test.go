package grid

import (
	"reflect"
	"testing"

	"pagegrid/internal/domain"
)

func TestAvailableWidths(t *testing.T) {
	tests := []struct {
		used int
		want []domain.ColSpan
	}{
		{0, []domain.ColSpan{12, 8, 6, 4}},
		{4, []domain.ColSpan{8, 6, 4}},
		{6, []domain.ColSpan{6, 4}},
		{8, []domain.ColSpan{4}},
		{12, nil},
	}
	for _, tt := range tests {
		got := AvailableWidths(tt.used)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("AvailableWidths(%d) = %v, want %v", tt.used, got, tt.want)
		}
	}
}

func TestIsSplittable(t *testing.T) {
	tests := []struct {
		span domain.ColSpan
		want bool
	}{
		{domain.SpanFull, true},
		{domain.SpanTwoThirds, true},
		{domain.SpanHalf, false},
		{domain.SpanThird, false},
	}
	for _, tt := range tests {
		if got := IsSplittable(tt.span); got != tt.want {
			t.Errorf("IsSplittable(%d) = %v, want %v", tt.span, got, tt.want)
		}
	}
}

func TestCoerceSpan(t *testing.T) {
	tests := []struct {
		in, want domain.ColSpan
	}{
		{4, 4},
		{6, 6},
		{8, 8},
		{12, 12},
		{0, 12},
		{5, 12},
		{13, 12},
		{-3, 12},
	}
	for _, tt := range tests {
		if got := coerceSpan(tt.in); got != tt.want {
			t.Errorf("coerceSpan(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
