package i18n

import (
	"testing"

	"github.com/alvinbaena/pwd-analyzer/pkg/strength"
)

func TestEnglishMatchesDefaults(t *testing.T) {
	l, err := New("en")
	if err != nil {
		t.Fatalf("Should not fail creating localizer: %s", err)
	}

	for id, text := range strength.DefaultMessages() {
		data := map[string]string{"Value": "1.50"}
		expected := strength.English{}.Localize(id, data)
		if got := l.Localize(id, data); got != expected {
			t.Errorf("%s: expected %q, have %q (template %q)", id, expected, got, text)
		}
	}
}

func TestSpanish(t *testing.T) {
	l, err := New("es")
	if err != nil {
		t.Fatalf("Should not fail creating localizer: %s", err)
	}

	if got := l.Localize(strength.MsgNoDigits, nil); got != "Agrega números." {
		t.Errorf("Unexpected translation %q", got)
	}
	if got := strength.FormatDuration(3675, l); got != "1.02 horas" {
		t.Errorf("Unexpected duration %q", got)
	}

	suggestions := strength.Suggest(strength.Features{Length: 3, Lower: 3}, 10, l)
	if len(suggestions) == 0 || suggestions[0] != "Aumenta la longitud de la contraseña a por lo menos 8 caracteres." {
		t.Errorf("Unexpected suggestions %v", suggestions)
	}
}

func TestFallbacks(t *testing.T) {
	// regional variant resolves to the base language
	l, err := New("es-MX")
	if err != nil {
		t.Fatalf("Should not fail creating localizer: %s", err)
	}
	if got := l.Localize(strength.MsgCrackInstant, nil); got != "Instantáneo" {
		t.Errorf("Unexpected translation %q", got)
	}

	// unsupported language resolves to English
	l, err = New("de")
	if err != nil {
		t.Fatalf("Should not fail creating localizer: %s", err)
	}
	if got := l.Localize(strength.MsgCrackForever, nil); got != "Effectively forever" {
		t.Errorf("Unexpected translation %q", got)
	}

	// unknown IDs come back unchanged
	if got := l.Localize("no.such.message", nil); got != "no.such.message" {
		t.Errorf("Unexpected translation %q", got)
	}
}

func TestInvalidLocale(t *testing.T) {
	if _, err := New("not a locale!"); err == nil {
		t.Errorf("Invalid tags should fail")
	}
}

func TestAvailable(t *testing.T) {
	tags := Available()
	if len(tags) != 2 || tags[0] != "en" || tags[1] != "es" {
		t.Errorf("Unexpected locales %v", tags)
	}
}
