// Package atcursor implements the scalar field parsers (numbers, hex
// numbers, quoted strings, IP/MAC addresses, datetimes) shared by every
// AT response parser in atproto. Every parser here is best-effort: none
// of them report a syntactic failure, all of them advance the cursor past
// whatever they consumed (including a trailing separator where the grammar
// calls for one), and all of them return a zero value on a field that is
// missing or malformed.
package atcursor

import "math"

// Cursor is a movable read position over an immutable byte slice. It never
// reallocates or mutates Buf; parsers advance Pos and read through it.
type Cursor struct {
	Buf []byte
	Pos int
}

// New wraps s in a Cursor positioned at the start.
func New(s []byte) *Cursor {
	return &Cursor{Buf: s}
}

// NewFromString is a convenience constructor for literal AT response text.
func NewFromString(s string) *Cursor {
	return &Cursor{Buf: []byte(s)}
}

func (c *Cursor) atEnd() bool {
	return c.Pos >= len(c.Buf)
}

func (c *Cursor) peek() byte {
	if c.atEnd() {
		return 0
	}
	return c.Buf[c.Pos]
}

func (c *Cursor) advance() {
	if c.Pos < len(c.Buf) {
		c.Pos++
	}
}

// skip consumes one occurrence of b if it is the current byte.
func (c *Cursor) skip(b byte) bool {
	if c.peek() == b {
		c.advance()
		return true
	}
	return false
}

// Done reports whether the cursor has reached '\r' or the end of the
// buffer — the two terminal positions every parser is allowed to stop at.
func (c *Cursor) Done() bool {
	return c.atEnd() || c.peek() == '\r'
}

// Remaining returns the unconsumed tail of the buffer.
func (c *Cursor) Remaining() []byte {
	if c.atEnd() {
		return nil
	}
	return c.Buf[c.Pos:]
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexVal(b byte) int32 {
	switch {
	case b >= '0' && b <= '9':
		return int32(b - '0')
	case b >= 'a' && b <= 'f':
		return int32(b-'a') + 10
	default:
		return int32(b-'A') + 10
	}
}

// ParseInt consumes a (possibly signed) decimal integer, per §4.1.
//
// Prefix-skip, each at most once and in this order: '"', ',', '"', '/',
// ':', '+', then an optional leading '-'. Body: a maximal run of decimal
// digits. Trailing: one ',' is consumed if present. Overflow saturates at
// math.MaxInt32/math.MinInt32 rather than wrapping (spec §9, Open
// Question iii).
func (c *Cursor) ParseInt() int32 {
	c.skip('"')
	c.skip(',')
	c.skip('"')
	c.skip('/')
	c.skip(':')
	c.skip('+')

	negative := c.skip('-')

	var val int64
	for isDigit(c.peek()) {
		val = val*10 + int64(c.peek()-'0')
		if val > -math.MinInt32 {
			val = -math.MinInt32
		}
		c.advance()
	}

	c.skip(',')

	if negative {
		val = -val
	} else if val > math.MaxInt32 {
		val = math.MaxInt32
	}
	return int32(val)
}

// ParseHex consumes an unsigned hexadecimal integer, per §4.1.
//
// Prefix-skip: '"', ',', '"' (no sign, no '/'/':'/'+'). Body: a maximal run
// of [0-9A-Fa-f]. Trailing: one ',' is consumed if present. Overflow
// saturates at math.MaxUint32.
func (c *Cursor) ParseHex() uint32 {
	c.skip('"')
	c.skip(',')
	c.skip('"')

	var val uint64
	for isHexDigit(c.peek()) {
		val = val*16 + uint64(hexVal(c.peek()))
		if val > math.MaxUint32 {
			val = math.MaxUint32
		}
		c.advance()
	}

	c.skip(',')
	return uint32(val)
}

// ParseQuotedString consumes a quoted field into dst and returns the number
// of bytes written (excluding the implicit terminator). Pass a nil dst to
// discard the field while still advancing the cursor correctly — used by
// Trim.
//
// Grammar: skip a leading ',' then a leading '"'. Copy bytes until
// end-of-input or a `" ,` / `" \r` / `" \n` boundary is seen, then consume
// the closing '"'; a '"' that is the last byte of the input also counts as
// the closing quote. If dst is non-nil it is always NUL-terminated at the
// returned length; dst must have room for at least one byte beyond the
// copied content if termination is desired by the caller.
//
// trim controls behavior once dst fills up: if true, input is still
// drained to the closing boundary without being copied further; if false,
// parsing stops at the point of truncation (the cursor is left mid-field).
func (c *Cursor) ParseQuotedString(dst []byte, trim bool) int {
	c.skip(',')
	c.skip('"')

	capacity := len(dst)
	if capacity > 0 {
		capacity--
	}

	written := 0
	for !c.atEnd() {
		b := c.peek()
		if b == '"' {
			last := c.Pos+1 >= len(c.Buf)
			next := byte(0)
			if !last {
				next = c.Buf[c.Pos+1]
			}
			if last || next == ',' || next == '\r' || next == '\n' {
				c.advance()
				break
			}
		}
		if dst != nil {
			if written < capacity {
				dst[written] = b
				written++
			} else if !trim {
				break
			}
		}
		c.advance()
	}
	if dst != nil && written < len(dst) {
		dst[written] = 0
	}
	return written
}

// ParseString is a convenience wrapper over ParseQuotedString that returns
// a Go string instead of writing into a caller buffer. maxLen bounds the
// field the way a fixed C buffer would; 0 or a negative value selects the
// default bound of 256 bytes.
func (c *Cursor) ParseString(maxLen int) string {
	if maxLen <= 0 {
		maxLen = 256
	}
	buf := make([]byte, maxLen+1)
	n := c.ParseQuotedString(buf, true)
	return string(buf[:n])
}

// Trim advances the cursor to the next structural boundary ('"', '\r', or
// ',') when it isn't already sitting on one — draining an unrecognized
// token without copying it anywhere. Per §4.1.
func (c *Cursor) Trim() {
	switch c.peek() {
	case '"', '\r', ',':
		return
	default:
		c.ParseQuotedString(nil, true)
	}
}

// IPv4 holds four octets in declaration order.
type IPv4 [4]byte

// ParseIP consumes an optionally quoted dotted-quad IP address, per §4.1.
func (c *Cursor) ParseIP() IPv4 {
	var ip IPv4
	c.skip('"')
	ip[0] = byte(c.ParseInt())
	c.advance()
	ip[1] = byte(c.ParseInt())
	c.advance()
	ip[2] = byte(c.ParseInt())
	c.advance()
	ip[3] = byte(c.ParseInt())
	c.skip('"')
	return ip
}

// MAC holds six octets in declaration order.
type MAC [6]byte

// ParseMAC consumes an optionally quoted colon-separated MAC address, per
// §4.1.
func (c *Cursor) ParseMAC() MAC {
	var mac MAC
	c.skip('"')
	mac[0] = byte(c.ParseHex())
	c.advance()
	mac[1] = byte(c.ParseHex())
	c.advance()
	mac[2] = byte(c.ParseHex())
	c.advance()
	mac[3] = byte(c.ParseHex())
	c.advance()
	mac[4] = byte(c.ParseHex())
	c.advance()
	mac[5] = byte(c.ParseHex())
	c.skip('"')
	c.skip(',')
	return mac
}

// DateTime is a modem-reported timestamp. Year is stored as the full
// 4-digit value (2000 + the modem's 2-digit field); spec invariant
// DateTime.year >= 2000 always holds.
type DateTime struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// ParseDateTime consumes "dd/mm/yy,hh:mm:ss" as six integers in order day,
// month, year-within-century, hour, minute, second, then trims to the next
// boundary, per §4.1.
func (c *Cursor) ParseDateTime() DateTime {
	dt := DateTime{}
	dt.Day = int(c.ParseInt())
	dt.Month = int(c.ParseInt())
	dt.Year = 2000 + int(c.ParseInt())
	dt.Hour = int(c.ParseInt())
	dt.Minute = int(c.ParseInt())
	dt.Second = int(c.ParseInt())
	c.Trim()
	return dt
}
