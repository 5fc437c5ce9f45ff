package atcursor_test

import (
	"testing"

	"github.com/i4energy/gsm-core/atcursor"
)

func TestParseIntNegative(t *testing.T) {
	c := atcursor.NewFromString("-42,rest")
	got := c.ParseInt()
	if got != -42 {
		t.Errorf("ParseInt() = %d, want -42", got)
	}
	if string(c.Remaining()) != "rest" {
		t.Errorf("cursor left at %q, want %q", c.Remaining(), "rest")
	}
}

func TestParseIntOverflowSaturates(t *testing.T) {
	c := atcursor.NewFromString("99999999999")
	got := c.ParseInt()
	if got != 1<<31-1 {
		t.Errorf("ParseInt() = %d, want MaxInt32", got)
	}
}

func TestParseIntUnderflowSaturates(t *testing.T) {
	c := atcursor.NewFromString("-99999999999")
	got := c.ParseInt()
	if got != -(1 << 31) {
		t.Errorf("ParseInt() = %d, want MinInt32", got)
	}
}

func TestParseStringQuotedWithTrailer(t *testing.T) {
	c := atcursor.NewFromString(`"HELLO",next`)
	buf := make([]byte, 8)
	n := c.ParseQuotedString(buf, true)
	if got := string(buf[:n]); got != "HELLO" {
		t.Errorf("ParseQuotedString wrote %q, want %q", got, "HELLO")
	}
	if string(c.Remaining()) != ",next" {
		t.Errorf("cursor left at %q, want %q", c.Remaining(), ",next")
	}
}

func TestParseStringTruncatesWithTrim(t *testing.T) {
	c := atcursor.NewFromString(`"HELLO WORLD",next`)
	buf := make([]byte, 6)
	n := c.ParseQuotedString(buf, true)
	if got := string(buf[:n]); got != "HELLO" {
		t.Errorf("ParseQuotedString wrote %q, want %q", got, "HELLO")
	}
	if string(c.Remaining()) != ",next" {
		t.Errorf("cursor should have drained past the closing quote to %q, got %q", ",next", c.Remaining())
	}
}

func TestParseIPQuoted(t *testing.T) {
	for _, quoted := range []bool{true, false} {
		input := "1.2.3.4"
		if quoted {
			input = `"1.2.3.4"`
		}
		c := atcursor.NewFromString(input)
		ip := c.ParseIP()
		want := atcursor.IPv4{1, 2, 3, 4}
		if ip != want {
			t.Errorf("ParseIP(%q) = %v, want %v", input, ip, want)
		}
	}
}

func TestParseMACCaseInsensitive(t *testing.T) {
	for _, input := range []string{`"AA:BB:CC:DD:EE:FF"`, `"aa:bb:cc:dd:ee:ff"`} {
		c := atcursor.NewFromString(input)
		mac := c.ParseMAC()
		want := atcursor.MAC{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
		if mac != want {
			t.Errorf("ParseMAC(%q) = %v, want %v", input, mac, want)
		}
	}
}

func TestParseDateTimeYearOffset(t *testing.T) {
	c := atcursor.NewFromString("15/06/24,10:20:30\r")
	dt := c.ParseDateTime()
	want := atcursor.DateTime{Year: 2024, Month: 6, Day: 15, Hour: 10, Minute: 20, Second: 30}
	if dt != want {
		t.Errorf("ParseDateTime() = %+v, want %+v", dt, want)
	}
}

// TestCursorMonotonicity exercises every C1 parser against a battery of
// inputs and checks the position invariant from the testable-properties
// list: it never goes backward and never runs past the buffer.
func TestCursorMonotonicity(t *testing.T) {
	inputs := []string{
		"", "42", "-42,rest", `"quoted",tail`, "1.2.3.4",
		`"AA:BB:CC:DD:EE:FF"`, "01/02/20,03:04:05\r", "garbage!!!",
	}
	parsers := []func(*atcursor.Cursor){
		func(c *atcursor.Cursor) { c.ParseInt() },
		func(c *atcursor.Cursor) { c.ParseHex() },
		func(c *atcursor.Cursor) { c.ParseString(0) },
		func(c *atcursor.Cursor) { c.ParseIP() },
		func(c *atcursor.Cursor) { c.ParseMAC() },
		func(c *atcursor.Cursor) { c.ParseDateTime() },
		func(c *atcursor.Cursor) { c.Trim() },
	}
	for _, input := range inputs {
		for _, parse := range parsers {
			c := atcursor.NewFromString(input)
			before := c.Pos
			parse(c)
			if c.Pos < before {
				t.Errorf("cursor moved backward on input %q: %d -> %d", input, before, c.Pos)
			}
			if c.Pos > len(c.Buf) {
				t.Errorf("cursor ran past buffer on input %q: pos=%d len=%d", input, c.Pos, len(c.Buf))
			}
		}
	}
}
