package htmlstream

import (
	"golang.org/x/net/html"
	"testing"
)

func TestFeederDecodesISO88592(t *testing.T) {
	// 0xB3 is 'ł' in ISO-8859-2.
	raw := []byte("Tytu\xb3")

	f := NewFeeder()
	if err := f.Feed(raw); err != nil {
		t.Fatalf("Feed failed: %v", err)
	}

	if got, want := f.Text(), "Tytuł"; got != want {
		t.Errorf("Text() = %q, expected %q", got, want)
	}
}

func TestFeederTokenizerAcrossChunks(t *testing.T) {
	f := NewFeeder()
	_ = f.Feed([]byte("<table><tr><td>"))
	_ = f.Feed([]byte("Yuru Camp</td></tr></table>"))

	z := f.Tokenizer()
	var sawText bool
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken && z.Token().Data == "Yuru Camp" {
			sawText = true
		}
	}

	if !sawText {
		t.Errorf("expected to find text token %q across fed chunks", "Yuru Camp")
	}
}

func TestFeederTolerantOfIncompleteTrailingTag(t *testing.T) {
	f := NewFeeder()
	_ = f.Feed([]byte("<table><tr><td>Yuru Camp</td></tr><tr><t"))

	z := f.Tokenizer()
	count := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		count++
	}

	if count == 0 {
		t.Errorf("expected at least the complete first row's tokens")
	}
}
