// Package codec implements the canonical, order-independent serialization
// used throughout this module for hashing and signature verification. Two
// mappings that are equal as sets of key/value pairs must produce the same
// serialized form, which is why this package sorts keys itself rather than
// leaning on encoding/json's map ordering.
package codec

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// EmptyHash is H({}), the SHA-256 hex digest of the canonical form of an
// empty mapping. The genesis block's previous_hash is fixed to this value.
const EmptyHash = "44136fa355b3678a1146ad16f7e8649e94fb4fc21fe77e8310c060f61caaff8a"

// Field is one key/value pair of a canonical object. Value must already be
// a canonical JSON fragment (see Str, Int, Float, Array).
type Field struct {
	Key   string
	Value string
}

// Object renders fields as a compact JSON object with keys sorted ascending
// by their string form.
func Object(fields ...Field) string {
	sorted := append([]Field(nil), fields...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	var b strings.Builder
	b.WriteByte('{')
	for i, f := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(f.Key))
		b.WriteByte(':')
		b.WriteString(f.Value)
	}
	b.WriteByte('}')
	return b.String()
}

// Array renders items, each already a canonical JSON fragment, as a JSON
// array preserving their existing order.
func Array(items ...string) string {
	return "[" + strings.Join(items, ",") + "]"
}

// Str renders s as a quoted string via strconv.Quote. For printable UTF-8
// text this is a valid JSON string; control characters, non-printable runes
// and invalid UTF-8 bytes use Go escapes (\x.., \U........), which JSON
// does not accept.
func Str(s string) string {
	return strconv.Quote(s)
}

// Int renders n as a canonical JSON integer.
func Int(n int64) string {
	return strconv.FormatInt(n, 10)
}

// Float renders f the way Python's json module renders a float: integral
// values keep a trailing ".0" rather than collapsing to an integer literal,
// so that 1.0 and 1 never hash to the same canonical form as a bare number
// would suggest. Like Python, exponent notation is used only for magnitudes
// below 1e-4 or from 1e16 up.
func Float(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if (f >= 1e6 && f < 1e16) || (f <= -1e6 && f > -1e16) {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	}
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// HashHex returns H(s): the lowercase hex SHA-256 digest of s.
func HashHex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// HashBytes returns the raw 32-byte SHA-256 digest of s, the form signed and
// verified by crypto.Verify.
func HashBytes(s string) [32]byte {
	return sha256.Sum256([]byte(s))
}
