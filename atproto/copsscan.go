package atproto

// OperatorScanner is the byte-streaming state machine for the +COPS=?
// response (§4.3.1). The response is a possibly long
// "(stat,"long","short",num),(...),..." stream whose length may exceed
// line-buffer capacity, so unlike every other response it is fed one byte
// at a time rather than parsed from a fully buffered line.
//
// Its lifetime equals that of one scan command (Design Note: "Byte-level
// state machine for +COPS=?"); NewOperatorScanner calls Reset, and calling
// Reset again at the start of a later scan lets a single instance be reused
// across retries without reallocating.
type OperatorScanner struct {
	results []Operator // caller-sized destination slice, filled [0:index)
	index   int        // opsi: next write position / count of completed tuples
	limit   int        // opsl: capacity of results
	count   *int       // opf: optional mirror of index, updated as each tuple closes

	bracketOpen    bool
	consecutiveCommas bool
	term           int // tn: 0=status 1=long 2=short 3=number
	termPos        int // tp: byte position within the current term's buffer
	prevByte       byte
	haveByte       bool // whether prevByte is meaningful (first-byte detection)

	longBuf  [32]byte
	shortBuf [16]byte
}

// NewOperatorScanner creates a scanner writing into dst (capacity bounds
// opsl) and optionally mirroring the running count into count.
func NewOperatorScanner(dst []Operator, count *int) *OperatorScanner {
	s := &OperatorScanner{results: dst, limit: len(dst), count: count}
	s.Reset()
	return s
}

// Reset zeros all state, as if the scanner had just been constructed. Call
// once at command start (and nowhere else — mid-stream reset would corrupt
// an in-progress tuple).
func (s *OperatorScanner) Reset() {
	s.index = 0
	s.bracketOpen = false
	s.consecutiveCommas = false
	s.term = 0
	s.termPos = 0
	s.prevByte = 0
	s.haveByte = false
	for i := range s.longBuf {
		s.longBuf[i] = 0
	}
	for i := range s.shortBuf {
		s.shortBuf[i] = 0
	}
}

// OperatorIndex returns opsi, the number of fully populated operator
// records written so far. Invariant: OperatorIndex() <= len(dst) always.
func (s *OperatorScanner) OperatorIndex() int {
	return s.index
}

// Feed consumes one byte of the +COPS=? response. Call Reset before the
// first Feed of a new scan.
func (s *OperatorScanner) Feed(ch byte) {
	if !s.haveByte {
		if ch == ' ' {
			return // leading spaces ignored
		}
		if ch == ',' {
			s.consecutiveCommas = true // first byte is a comma: no operators available
		}
	}

	if s.consecutiveCommas || s.index >= s.limit {
		s.prevByte = ch
		s.haveByte = true
		return
	}

	if s.bracketOpen {
		switch {
		case ch == ')':
			s.closeTuple()
		case ch == ',':
			s.term++
			s.termPos = 0
		case ch != '"':
			s.consumeTermByte(ch)
		}
	} else {
		if ch == '(' {
			s.bracketOpen = true
		} else if ch == ',' && s.prevByte == ',' {
			s.consecutiveCommas = true
		}
	}

	s.prevByte = ch
	s.haveByte = true
}

func (s *OperatorScanner) consumeTermByte(ch byte) {
	cur := &s.results[s.index]
	switch s.term {
	case 0:
		cur.Status = OperatorStatus(10*int(cur.Status) + int(ch-'0'))
	case 1:
		if s.termPos < len(s.longBuf)-1 {
			s.longBuf[s.termPos] = ch
			s.termPos++
			s.longBuf[s.termPos] = 0
		}
		cur.LongName = string(s.longBuf[:s.termPos])
	case 2:
		if s.termPos < len(s.shortBuf)-1 {
			s.shortBuf[s.termPos] = ch
			s.termPos++
			s.shortBuf[s.termPos] = 0
		}
		cur.ShortName = string(s.shortBuf[:s.termPos])
	case 3:
		cur.Numeric = 10*cur.Numeric + int32(ch-'0')
	}
}

func (s *OperatorScanner) closeTuple() {
	s.bracketOpen = false
	s.term = 0
	s.termPos = 0
	s.index++
	if s.count != nil {
		*s.count = s.index
	}
	// the next tuple's term buffers are reused from scratch
	for i := range s.longBuf {
		s.longBuf[i] = 0
	}
	for i := range s.shortBuf {
		s.shortBuf[i] = 0
	}
}
