package atproto

import "github.com/i4energy/gsm-core/atcursor"

// ParseMemoryToken matches the cursor's current position against each
// entry of DefaultMemoryMap in declaration order, per §4.2. On the first
// prefix match the cursor advances past the token and the mapped kind is
// returned. On no match, the unknown token is trimmed away and MemUnknown
// is returned. A leading ',' and '"' are skipped first; a trailing '"' is
// skipped after a successful match.
func ParseMemoryToken(c *atcursor.Cursor) MemoryKind {
	return ParseMemoryTokenFromMap(c, DefaultMemoryMap)
}

// ParseMemoryTokenFromMap is ParseMemoryToken against an explicit table,
// letting callers use a device-specific memory map without mutating the
// package-level default.
func ParseMemoryTokenFromMap(c *atcursor.Cursor, table []MemoryMapEntry) MemoryKind {
	if len(c.Remaining()) > 0 && c.Remaining()[0] == ',' {
		c.Pos++
	}
	skipQuote(c)

	rest := c.Remaining()
	for _, entry := range table {
		if hasPrefix(rest, entry.Token) {
			advance(c, len(entry.Token))
			skipQuote(c)
			return entry.Kind
		}
	}

	c.Trim()
	skipQuote(c)
	return MemUnknown
}

// skipQuote and advance are tiny cursor-local helpers kept private to this
// file; atcursor.Cursor intentionally exposes only the parsing primitives
// spec §4.1 names, not raw seek operations, so the small amount of direct
// field access here is confined to the enumeration layer that needs it.
func skipQuote(c *atcursor.Cursor) {
	if len(c.Remaining()) > 0 && c.Remaining()[0] == '"' {
		c.Pos++
	}
}

func advance(c *atcursor.Cursor, n int) {
	c.Pos += n
}

func hasPrefix(buf []byte, prefix string) bool {
	if len(buf) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		if buf[i] != prefix[i] {
			return false
		}
	}
	return true
}

// ParseMemoryList parses a "(T1,T2,...)" comma-separated list of memory
// tokens into a bitset, per §4.2. A leading ',' and '(' are skipped; the
// list terminates on ')' (consumed) or end-of-input.
func ParseMemoryList(c *atcursor.Cursor) MemoryBitset {
	return ParseMemoryListFromMap(c, DefaultMemoryMap)
}

// ParseMemoryListFromMap is ParseMemoryList against an explicit table.
func ParseMemoryListFromMap(c *atcursor.Cursor, table []MemoryMapEntry) MemoryBitset {
	if len(c.Remaining()) > 0 && c.Remaining()[0] == ',' {
		c.Pos++
	}
	if len(c.Remaining()) > 0 && c.Remaining()[0] == '(' {
		c.Pos++
	}

	var bits MemoryBitset
	for {
		rest := c.Remaining()
		if len(rest) == 0 || rest[0] == ')' {
			break
		}
		kind := ParseMemoryTokenFromMap(c, table)
		bits |= 1 << uint(kind)
		rest = c.Remaining()
		if len(rest) > 0 && rest[0] == ',' {
			c.Pos++
		} else {
			break
		}
	}
	if len(c.Remaining()) > 0 && c.Remaining()[0] == ')' {
		c.Pos++
	}
	return bits
}

// ParseSmsStatus matches a quoted token against the four SMS status
// strings the modem reports ("REC UNREAD", "REC READ", "STO UNSENT",
// "REC SENT"). Any other value is reported as a failure — callers should
// treat a false return as "no update", per §4.2.
func ParseSmsStatus(c *atcursor.Cursor) (SmsStatus, bool) {
	token := c.ParseString(11)
	status, ok := smsStatusTokens[token]
	return status, ok
}
