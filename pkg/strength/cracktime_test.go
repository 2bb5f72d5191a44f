package strength

import (
	"math"
	"strings"
	"testing"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "Instantly"},
		{0.999, "Instantly"},
		{1, "1.00 seconds"},
		{30, "30.00 seconds"},
		{90, "1.50 minutes"},
		{7200, "2.00 hours"},
		{172800, "2.00 days"},
		{3 * year, "3.00 years"},
		{2 * century, "2.00 centuries"},
		{5 * millennium, "5.00 millennia"},
		{999_999 * millennium, "999999.00 millennia"},
		{1e6 * millennium, "1.00e+06 millennia"},
		{4.2e180 * millennium, "4.20e+180 millennia"},
		{math.Inf(1), "Effectively forever"},
	}

	for _, tc := range cases {
		if got := FormatDuration(tc.seconds, nil); got != tc.want {
			t.Errorf("FormatDuration(%v): %q, want: %q", tc.seconds, got, tc.want)
		}
	}
}

func TestCharsetSize(t *testing.T) {
	cases := []struct {
		features Features
		want     int
	}{
		{Features{Lower: 1}, 26},
		{Features{Upper: 1}, 26},
		{Features{Lower: 1, Upper: 1}, 52},
		{Features{Digits: 4}, 10},
		{Features{Special: 1}, 33},
		{Features{Lower: 1, Upper: 1, Digits: 1, Special: 1}, 95},
		{Features{}, 26},
	}

	for _, tc := range cases {
		if got := charsetSize(tc.features); got != tc.want {
			t.Errorf("charsetSize(%+v): %d, want: %d", tc.features, got, tc.want)
		}
	}
}

func TestEffectiveLength(t *testing.T) {
	cases := []struct {
		features Features
		want     float64
	}{
		{Features{Length: 10}, 10},
		{Features{Length: 10, Proximity: 5}, 10},
		{Features{Length: 10, Proximity: 6}, 8},
		{Features{Length: 10, Repeats: 3}, 10},
		{Features{Length: 10, Repeats: 5}, 7.5},
		{Features{Length: 10, Sequential: 2}, 10},
		{Features{Length: 10, Sequential: 3}, 8.5},
		{Features{Length: 10, Repeats: 6, Sequential: 4, Proximity: 6}, 3},
		{Features{Length: 4, Repeats: 4, Sequential: 3, Proximity: 3}, 1},
	}

	for _, tc := range cases {
		if got := effectiveLength(tc.features); got != tc.want {
			t.Errorf("effectiveLength(%+v): %v, want: %v", tc.features, got, tc.want)
		}
	}
}

func TestFeatureEstimator(t *testing.T) {
	e := FeatureEstimator{}

	got := e.Estimate(Features{Length: 10, Entropy: 3.17, Lower: 10}, 51)
	if got["fast_attack"] != "8.17 days" {
		t.Errorf("fast_attack: %q, want: %q", got["fast_attack"], "8.17 days")
	}
	if got["slow_attack"] != "223.82 years" {
		t.Errorf("slow_attack: %q, want: %q", got["slow_attack"], "223.82 years")
	}

	got = e.Estimate(Features{Length: 1, Lower: 1}, 2)
	for name, display := range got {
		if display != "Instantly" {
			t.Errorf("%s: %q, want: Instantly", name, display)
		}
	}
}

func TestFeatureEstimator_Leaked(t *testing.T) {
	attackers := []AttackerModel{{"a", 1}, {"b", 1e3}, {"c", 1e12}}
	estimators := []CrackTimeEstimator{
		FeatureEstimator{Attackers: attackers},
		ScoreEstimator{Attackers: attackers},
	}

	for _, e := range estimators {
		got := e.Estimate(Features{Length: 40, Entropy: 5, Upper: 10, Lower: 10, Digits: 10, Special: 10, IsLeaked: true}, 100)
		if len(got) != len(attackers) {
			t.Errorf("%T: %d estimates, want %d", e, len(got), len(attackers))
		}
		for name, display := range got {
			if display != "Instantly (password already compromised)" {
				t.Errorf("%T %s: %q should report compromised", e, name, display)
			}
		}
	}
}

func TestFeatureEstimator_HugeSearchSpace(t *testing.T) {
	got := FeatureEstimator{}.Estimate(Features{Length: 400, Upper: 100, Lower: 100, Digits: 100, Special: 100}, 100)
	for name, display := range got {
		if display != "Effectively forever" {
			t.Errorf("%s: %q, want: Effectively forever", name, display)
		}
	}
}

func TestScoreEstimator(t *testing.T) {
	e := ScoreEstimator{}

	got := e.Estimate(Features{Length: 3, Lower: 3}, 0)
	for name, display := range got {
		if display != "Instantly" {
			t.Errorf("%s: %q, want: Instantly", name, display)
		}
	}

	got = e.Estimate(Features{Length: 30, Lower: 30}, 100)
	for name, display := range got {
		if !strings.HasSuffix(display, "millennia") {
			t.Errorf("%s: %q, want millennia", name, display)
		}
	}
}
