package htmlstream

import (
	"io"

	"golang.org/x/text/encoding/charmap"
)

// DecodeISO88592 wraps r so that bytes read from it are converted from the
// catalog site's fixed ISO-8859-2 code page to UTF-8. Unlike the heuristic
// charset-sniffing some HTML parsers do, the encoding here is never guessed:
// the site is known to always serve this one code page.
func DecodeISO88592(r io.Reader) io.Reader {
	return charmap.ISO8859_2.NewDecoder().Reader(r)
}
