package atproto

import "github.com/i4energy/gsm-core/atcursor"

// Operator carries a +COPS tuple: the selection mode, which field format is
// populated, and the tagged payload itself (long name XOR short name XOR
// numeric code — exactly one is meaningful, selected by Format).
type Operator struct {
	Mode      OperatorMode
	Status    OperatorStatus
	Format    OperatorFormat
	LongName  string
	ShortName string
	Numeric   int32
}

// SmsEntry is one stored SMS, as reported by +CMGR or a +CMGL tuple. Body
// is not set by the parsers in this package: the message text arrives on
// the line(s) after each header, and the modem engine fills it from those.
type SmsEntry struct {
	Memory    MemoryKind
	Position  int
	Status    SmsStatus
	Number    string
	Name      string
	DateTime  atcursor.DateTime
	Body      string
}

// PhonebookEntry is one +CPBR/+CPBF result row.
type PhonebookEntry struct {
	Position int
	Name     string
	Type     NumberType
	Number   string
}

// CallRecord is one +CLCC row describing an active or ringing call.
type CallRecord struct {
	ID          int
	Direction   CallDirection
	State       CallState
	Type        CallType
	Multiparty  bool
	Number      string
	AddressType int
	Name        string
}

// MemoryPool is the per-SMS-slot bookkeeping +CPMS reports: which memories
// are available, which one is current, and how full it is.
type MemoryPool struct {
	Available MemoryBitset
	Current   MemoryKind
	Used      int
	Total     int
}

// PhonebookMemory mirrors MemoryPool but for +CPBS (phonebook has a single
// active memory rather than three SMS slots).
type PhonebookMemory struct {
	Available MemoryBitset
	Current   MemoryKind
	Used      int
	Total     int
}
