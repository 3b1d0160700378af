package render

import (
	"reflect"
	"testing"
)

func TestAtempoChain(t *testing.T) {
	tests := []struct {
		speed float64
		want  []float64
	}{
		{1, nil},
		{0, nil},
		{2, []float64{2}},
		{0.5, []float64{0.5}},
		{4, []float64{2, 2}},
		{5, []float64{2, 2, 1.25}},
		{0.2, []float64{0.5, 0.5, 0.8}},
		{1.5, []float64{1.5}},
	}
	for _, tt := range tests {
		got := atempoChain(tt.speed)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("atempoChain(%v) = %v, want %v", tt.speed, got, tt.want)
		}
		// every emitted stage must sit inside the filter's accepted band
		for _, s := range got {
			if s < 0.5 || s > 2.0 {
				t.Errorf("atempoChain(%v) stage %v out of [0.5, 2.0]", tt.speed, s)
			}
		}
	}
}
