package locale

import "testing"

func TestNormalizeLanguage(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "uk", want: LanguageUkrainian},
		{input: "uk-UA", want: LanguageUkrainian},
		{input: "UA", want: LanguageUkrainian},
		{input: "en", want: LanguageEnglish},
		{input: "en-US", want: LanguageEnglish},
		{input: "fr", want: ""},
		{input: "", want: ""},
	}

	for _, tc := range cases {
		if got := NormalizeLanguage(tc.input); got != tc.want {
			t.Fatalf("NormalizeLanguage(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestLanguageFromAcceptLanguage(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "uk-UA,uk;q=0.9", want: LanguageUkrainian},
		{input: "en-US,en;q=0.9", want: LanguageEnglish},
		{input: "fr-FR,en;q=0.5", want: LanguageEnglish},
		{input: "fr-FR,fr;q=0.9", want: ""},
		{input: "", want: ""},
	}

	for _, tc := range cases {
		if got := LanguageFromAcceptLanguage(tc.input); got != tc.want {
			t.Fatalf("LanguageFromAcceptLanguage(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestPickDefaultsToUkrainian(t *testing.T) {
	if got := Pick("", "Saved", "Записав"); got != "Записав" {
		t.Fatalf("expected ukrainian text, got %q", got)
	}
	if got := Pick("en", "Saved", "Записав"); got != "Saved" {
		t.Fatalf("expected english text, got %q", got)
	}
	if got := Pick("en", "", "Записав"); got != "Записав" {
		t.Fatalf("expected fallback to ukrainian, got %q", got)
	}
}

func TestLabels(t *testing.T) {
	if got := CategoryEmoji("meeting"); got != "👥" {
		t.Fatalf("unexpected emoji %q", got)
	}
	if got := CategoryEmoji("unknown"); got != "❓" {
		t.Fatalf("unknown category should use the question mark, got %q", got)
	}
	if got := CategoryLabel("uk", "meal"); got != "їжа" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := MealLabel("en", "lunch"); got != "lunch" {
		t.Fatalf("unexpected meal label %q", got)
	}
	if got := MoodLabel("uk", "custom"); got != "custom" {
		t.Fatalf("unknown keys are returned as-is, got %q", got)
	}
	if got := PreferenceForLanguage("en").HTMLLang; got != "en-US" {
		t.Fatalf("unexpected html lang %q", got)
	}
	if got := PreferenceForLanguage("").HTMLLang; got != "uk-UA" {
		t.Fatalf("unexpected default html lang %q", got)
	}
}
