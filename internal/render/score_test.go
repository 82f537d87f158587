package render

import "testing"

func intPtr(v int) *int { return &v }

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *int
	}{
		{name: "slash", in: "Gesamtbewertung: **87/100**", want: intPtr(87)},
		{name: "slash with spaces", in: "Punktzahl 64 / 100", want: intPtr(64)},
		{name: "von", in: "Ich vergebe 72 von 100 Punkten.", want: intPtr(72)},
		{name: "of", in: "Score: 55 of 100", want: intPtr(55)},
		{name: "non-breaking spaces", in: "87\u00a0von\u00a0100", want: intPtr(87)},
		{name: "narrow no-break space", in: "91\u202f/\u202f100", want: intPtr(91)},
		{name: "clamped", in: "Das sind 150 von 100 Punkten", want: intPtr(100)},
		{name: "clamped slash", in: "999/100", want: intPtr(100)},
		{name: "zero", in: "0/100", want: intPtr(0)},
		{name: "first match wins", in: "85/100 statt 90/100", want: intPtr(85)},
		{name: "no pattern", in: "Ein guter Lebenslauf ohne Punktzahl.", want: nil},
		{name: "thousand is not a score", in: "Über 1000 Bewerbungen", want: nil},
		{name: "empty", in: "", want: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.in)
			switch {
			case tt.want == nil && got != nil:
				t.Fatalf("Score(%q) = %d, want nil", tt.in, *got)
			case tt.want != nil && got == nil:
				t.Fatalf("Score(%q) = nil, want %d", tt.in, *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Fatalf("Score(%q) = %d, want %d", tt.in, *got, *tt.want)
			}
		})
	}
}

func TestScoreLabel(t *testing.T) {
	if got := ScoreLabel(nil); got != ScorePlaceholder {
		t.Fatalf("expected placeholder, got %q", got)
	}
	if got := ScoreLabel(intPtr(87)); got != "87" {
		t.Fatalf("expected 87, got %q", got)
	}
	if got := ScoreLabel(intPtr(0)); got != "0" {
		t.Fatalf("expected 0, got %q", got)
	}
}
