// Package htmlstream provides the chunk-fed, tolerant HTML scanning layer
// shared by CatalogScraper and SearchScraper: legacy-encoding decoding plus
// a tag-event tokenizer, rather than a buffered DOM tree, so a caller can
// re-derive a result after every chunk.
package htmlstream

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Feeder accumulates chunks of ISO-8859-2 encoded HTML, decoding each chunk
// as it arrives (safe because ISO-8859-2 maps one byte to one rune, so no
// chunk boundary can split a character) and exposes a fresh tokenizer over
// everything fed so far.
type Feeder struct {
	text strings.Builder
}

// NewFeeder returns an empty Feeder.
func NewFeeder() *Feeder {
	return &Feeder{}
}

// Feed decodes raw and appends it to the accumulated text.
func (f *Feeder) Feed(raw []byte) error {
	decoded, err := io.ReadAll(DecodeISO88592(bytes.NewReader(raw)))
	if err != nil {
		return err
	}
	f.text.Write(decoded)
	return nil
}

// Text returns the decoded UTF-8 text accumulated so far.
func (f *Feeder) Text() string {
	return f.text.String()
}

// Tokenizer returns a fresh html.Tokenizer over everything fed so far. The
// tokenizer tolerates an incomplete trailing tag: it simply stops at
// io.EOF without emitting a partial element, which is what lets a caller
// re-tokenize after every Feed and only ever see complete tags.
func (f *Feeder) Tokenizer() *html.Tokenizer {
	return html.NewTokenizer(strings.NewReader(f.text.String()))
}
