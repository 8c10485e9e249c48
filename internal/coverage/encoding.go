package coverage

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is the source and report encoding used when none is set.
const DefaultEncoding = "UTF-8"

// LookupEncoding resolves an encoding name such as "UTF-8", "ISO-8859-1" or
// "Shift_JIS". IANA names map to the charset they register, so ISO-8859-1 is
// strict Latin-1. WHATWG labels IANA does not know, such as "utf8", are
// resolved through the HTML index.
func LookupEncoding(name string) (encoding.Encoding, error) {
	if strings.TrimSpace(name) == "" {
		return unicode.UTF8, nil
	}
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", name, err)
	}
	return enc, nil
}

// IsUTF8 reports whether name resolves to UTF-8.
func IsUTF8(name string) bool {
	enc, err := LookupEncoding(name)
	if err != nil {
		return false
	}
	return enc == unicode.UTF8
}

// decodeSource converts src from enc to UTF-8.
func decodeSource(enc encoding.Encoding, src []byte) ([]byte, error) {
	if enc == unicode.UTF8 {
		return src, nil
	}
	return enc.NewDecoder().Bytes(src)
}
