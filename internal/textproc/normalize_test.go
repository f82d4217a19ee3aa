package textproc

import (
	"regexp"
	"testing"
)

func TestNormalizeRemovesNonLetters(t *testing.T) {
	t.Parallel()

	if got := Normalize("Great movie!!"); got != "Great movie" {
		t.Fatalf("unexpected result: %q", got)
	}
	if got := Normalize("Terrible 123 movie"); got != "Terrible movie" {
		t.Fatalf("unexpected result: %q", got)
	}
	if got := Normalize("it's fine"); got != "its fine" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	t.Parallel()

	if got := Normalize("  so \t\n  good  "); got != "so good" {
		t.Fatalf("unexpected result: %q", got)
	}
	if got := Normalize(""); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
	if got := Normalize(" \t \n "); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}

func TestNormalizeOutputAlphabet(t *testing.T) {
	t.Parallel()

	shape := regexp.MustCompile(`^$|^[A-Za-z]+( [A-Za-z]+)*$`)
	inputs := []string{
		"An absolute 10/10, would watch again!!!",
		"très bien, merci",
		"semi-coherent   plot",
		"😀 loved it 😀",
		"....",
		"tabs\tand\nnewlines",
	}

	for _, input := range inputs {
		got := Normalize(input)
		if !shape.MatchString(got) {
			t.Fatalf("output %q for input %q violates letters-and-single-spaces shape", got, input)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"One of the BEST films ever!",
		"  spaced   out  ",
		"plain",
		"",
	}

	for _, input := range inputs {
		once := Normalize(input)
		if twice := Normalize(once); twice != once {
			t.Fatalf("not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestStripMarkup(t *testing.T) {
	t.Parallel()

	if got := StripMarkup("no markup here"); got != "no markup here" {
		t.Fatalf("plain text changed: %q", got)
	}

	got := StripMarkup("One of the best<br /><br />I loved it")
	if want := "One of the best  I loved it"; got != want {
		t.Fatalf("unexpected result: %q", got)
	}

	if got := StripMarkup("<b>bold</b> claim"); got != "bold claim" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestClean(t *testing.T) {
	t.Parallel()

	got := Clean("A <i>masterpiece</i>!<br />10 out of 10.")
	if want := "A masterpiece out of"; got != want {
		t.Fatalf("unexpected result: %q", got)
	}
}
