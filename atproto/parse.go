// Per-response-code parsers (§4.3). Each function takes the raw response
// line (including its "+XXXXX: " prefix) and returns a typed record plus
// whatever follow-up the engine needs to act on (enqueue another command,
// deliver an event, copy into a caller sink). None of them mutate package
// state or any engine-owned struct directly — by Design Note 1 that
// plumbing lives in the modem package, which owns the device state these
// results get folded into.
package atproto

import "github.com/i4energy/gsm-core/atcursor"

func skipResponsePrefix(c *atcursor.Cursor) {
	if len(c.Remaining()) > 0 && c.Remaining()[0] == '+' {
		c.Pos += 7
	}
}

// CREGResult is the outcome of parsing a +CREG line.
type CREGResult struct {
	Status NetworkRegStatus
	// NeedsOperatorQuery is true when the new status is Connected or
	// ConnectedRoaming, meaning the engine should enqueue a +COPS? query
	// to refresh the current operator (§4.3, "+CREG").
	NeedsOperatorQuery bool
}

// ParseCREG parses a +CREG line. skipFirst distinguishes the URC form
// ("+CREG: 1", status only) from the query form ("+CREG: 0,1"), which
// carries an extra leading mode integer to discard.
func ParseCREG(line []byte, skipFirst bool) CREGResult {
	c := atcursor.New(line)
	skipResponsePrefix(c)

	if skipFirst {
		c.ParseInt()
	}
	status := NetworkRegStatus(c.ParseInt())

	return CREGResult{
		Status:             status,
		NeedsOperatorQuery: status == RegConnected || status == RegConnectedRoaming,
	}
}

// CPINResult is the outcome of parsing a +CPIN line.
type CPINResult struct {
	State SimState
	// NeedsSimInfoFetch is true when the SIM just became Ready, meaning
	// the engine should kick off the basic SIM-info fetch sequence.
	NeedsSimInfoFetch bool
}

// ParseCPIN parses a +CPIN line against the five known status prefixes;
// anything else defaults to NotReady, matching the original's fallthrough.
func ParseCPIN(line []byte) CPINResult {
	c := atcursor.New(line)
	skipResponsePrefix(c)
	rest := c.Remaining()

	state := SimNotReady
	switch {
	case hasPrefix(rest, "READY"):
		state = SimReady
	case hasPrefix(rest, "NOT READY"):
		state = SimNotReady
	case hasPrefix(rest, "NOT INSERTED"):
		state = SimNotInserted
	case hasPrefix(rest, "SIM PIN"):
		state = SimPin
	case hasPrefix(rest, "PIN PUK"):
		state = SimPuk
	}

	return CPINResult{State: state, NeedsSimInfoFetch: state == SimReady}
}

// ParseCOPS parses the query form of +COPS ("AT+COPS?"'s response): mode,
// then format if present, then the format-tagged payload. Absence of the
// format field (cursor already at '\r') yields OperatorFormatInvalid, per
// §4.3. Per spec §9 Open Question ii, the numeric-format branch parses a
// single integer.
func ParseCOPS(line []byte) Operator {
	c := atcursor.New(line)
	skipResponsePrefix(c)

	var op Operator
	op.Mode = OperatorMode(c.ParseInt())

	if c.Done() {
		op.Format = OperatorFormatInvalid
		return op
	}

	op.Format = OperatorFormat(c.ParseInt())
	if c.Done() {
		return op
	}

	switch op.Format {
	case OperatorFormatLongName:
		op.LongName = c.ParseString(32)
	case OperatorFormatShortName:
		op.ShortName = c.ParseString(16)
	case OperatorFormatNumber:
		op.Numeric = c.ParseInt()
	}
	return op
}

// ParseCLCC parses a +CLCC call-status line.
func ParseCLCC(line []byte) CallRecord {
	c := atcursor.New(line)
	skipResponsePrefix(c)

	var call CallRecord
	call.ID = int(c.ParseInt())
	call.Direction = CallDirection(c.ParseInt())
	call.State = CallState(c.ParseInt())
	call.Type = CallType(c.ParseInt())
	call.Multiparty = c.ParseInt() != 0
	call.Number = c.ParseString(32)
	call.AddressType = int(c.ParseInt())
	call.Name = c.ParseString(32)
	return call
}

// ParseCMGS parses a +CMGS line, returning the sent-message reference.
func ParseCMGS(line []byte) int32 {
	c := atcursor.New(line)
	skipResponsePrefix(c)
	return c.ParseInt()
}

// ParseCMGR parses a +CMGR line into entry, filling status, number, name,
// and datetime. Memory and position are caller context (the index that was
// requested), not part of the response, so the caller sets them before or
// after calling this.
func ParseCMGR(line []byte, entry *SmsEntry) {
	c := atcursor.New(line)
	skipResponsePrefix(c)

	if status, ok := ParseSmsStatus(c); ok {
		entry.Status = status
	}
	entry.Number = c.ParseString(32)
	entry.Name = c.ParseString(32)
	entry.DateTime = c.ParseDateTime()
}

// ParseCMGL parses one +CMGL tuple into a fresh entry, tagging it with the
// memory the engine is currently listing (the response line itself carries
// no memory field). The caller is responsible for enforcing the in-flight
// CMGL guard and the ei < etr bound from §4.3 before calling this, and for
// incrementing ei afterward once the following body line arrives.
func ParseCMGL(line []byte, memory MemoryKind) SmsEntry {
	c := atcursor.New(line)
	skipResponsePrefix(c)

	var e SmsEntry
	e.Memory = memory
	e.Position = int(c.ParseInt())
	if status, ok := ParseSmsStatus(c); ok {
		e.Status = status
	}
	e.Number = c.ParseString(32)
	e.Name = c.ParseString(32)
	e.DateTime = c.ParseDateTime()
	return e
}

// CMTIResult is the outcome of parsing a +CMTI URC.
type CMTIResult struct {
	Memory   MemoryKind
	Position int
}

// ParseCMTI parses a +CMTI URC announcing a newly received SMS.
func ParseCMTI(line []byte) CMTIResult {
	c := atcursor.New(line)
	skipResponsePrefix(c)

	mem := ParseMemoryToken(c)
	pos := int(c.ParseInt())
	return CMTIResult{Memory: mem, Position: pos}
}

// ParseCPMSOptions parses the +CPMS=? list-of-lists form: three
// consecutive memory-list bitsets, one per SMS slot (operation, receive,
// sent).
func ParseCPMSOptions(line []byte) [3]MemoryBitset {
	c := atcursor.New(line)
	skipResponsePrefix(c)

	var out [3]MemoryBitset
	for i := 0; i < 3; i++ {
		out[i] = ParseMemoryList(c)
	}
	return out
}

// ParseCPMSCurrent parses the +CPMS? current-info form: three
// (memory, used, total) triples.
func ParseCPMSCurrent(line []byte) [3]MemoryPool {
	c := atcursor.New(line)
	skipResponsePrefix(c)

	var out [3]MemoryPool
	for i := 0; i < 3; i++ {
		out[i].Current = ParseMemoryToken(c)
		out[i].Used = int(c.ParseInt())
		out[i].Total = int(c.ParseInt())
	}
	return out
}

// ParseCPMSSet parses the +CPMS set-confirmation form: three (used, total)
// pairs, with no memory token repeated.
func ParseCPMSSet(line []byte) [3]MemoryPool {
	c := atcursor.New(line)
	skipResponsePrefix(c)

	var out [3]MemoryPool
	for i := 0; i < 3; i++ {
		out[i].Used = int(c.ParseInt())
		out[i].Total = int(c.ParseInt())
	}
	return out
}

// ParseCPBSOptions parses the +CPBS=? memory-list option query.
func ParseCPBSOptions(line []byte) MemoryBitset {
	c := atcursor.New(line)
	skipResponsePrefix(c)
	return ParseMemoryList(c)
}

// ParseCPBSCurrent parses the +CPBS? current-info form:
// (memory, used, total).
func ParseCPBSCurrent(line []byte) PhonebookMemory {
	c := atcursor.New(line)
	skipResponsePrefix(c)

	var out PhonebookMemory
	out.Current = ParseMemoryToken(c)
	out.Used = int(c.ParseInt())
	out.Total = int(c.ParseInt())
	return out
}

// ParseCPBSSet parses the +CPBS set-confirmation form: (used, total).
func ParseCPBSSet(line []byte) PhonebookMemory {
	c := atcursor.New(line)
	skipResponsePrefix(c)

	var out PhonebookMemory
	out.Used = int(c.ParseInt())
	out.Total = int(c.ParseInt())
	return out
}

// ParseCPBR parses one +CPBR tuple into a fresh entry. Like ParseCMGL, the
// caller enforces the in-flight-command and bounds guard from §4.3 and
// advances its own progress counter after the call.
func ParseCPBR(line []byte) PhonebookEntry {
	return parsePhonebookTuple(line)
}

// ParseCPBF parses one +CPBF tuple — identical wire shape to +CPBR.
func ParseCPBF(line []byte) PhonebookEntry {
	return parsePhonebookTuple(line)
}

func parsePhonebookTuple(line []byte) PhonebookEntry {
	c := atcursor.New(line)
	skipResponsePrefix(c)

	var e PhonebookEntry
	e.Position = int(c.ParseInt())
	e.Name = c.ParseString(32)
	e.Type = NumberType(c.ParseInt())
	e.Number = c.ParseString(32)
	return e
}
