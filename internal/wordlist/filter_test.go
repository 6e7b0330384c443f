package wordlist

import "testing"

func TestFilterEnglishASCII(t *testing.T) {
	filter := FilterForLang("en")
	if !filter("hello") {
		t.Fatalf("expected hello to pass english filter")
	}
	for _, word := range []string{"résumé", "naïve", "don’t", "co-op", ""} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestFilterLettersKeepsAccents(t *testing.T) {
	filter := FilterForLang("de")
	if !filter("äpfel") {
		t.Fatalf("expected äpfel to pass letters filter")
	}
	if filter("co-op") {
		t.Fatalf("expected co-op to be rejected")
	}
}
