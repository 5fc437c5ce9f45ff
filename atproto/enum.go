// Package atproto holds the enumerations, records, and per-response-code
// parsers (§3 and §4.2-4.3 of the driver spec) built on top of atcursor's
// scalar field parsers.
package atproto

// MemoryKind enumerates the SMS/phonebook storage areas a modem can report.
// Bounded to 31 distinct values (spec §9, Open Question i) because
// MemoryBitset packs one bit per kind into a uint32.
type MemoryKind int

const (
	MemSM MemoryKind = iota
	MemME
	MemMT
	MemSR
	MemBM
	MemUnknown
)

// MemoryBitset packs "which memories are available" as 1<<MemoryKind per
// member; bit k is set iff MemoryKind(k) was enumerated in the source list.
type MemoryBitset uint32

// Has reports whether kind's bit is set.
func (b MemoryBitset) Has(kind MemoryKind) bool {
	return b&(1<<uint(kind)) != 0
}

// MemoryMapEntry is one row of the process-wide ordered token->MemoryKind
// table consulted by ParseMemoryToken.
type MemoryMapEntry struct {
	Token string
	Kind  MemoryKind
}

// DefaultMemoryMap is the generic 3GPP memory token table. A device-specific
// table (spec §6, "Memory map (consumed)") can replace it wholesale by
// assigning a new slice to DefaultMemoryMap during program init, the same
// way the original exports gsm_dev_mem_map.
var DefaultMemoryMap = []MemoryMapEntry{
	{"SM", MemSM},
	{"ME", MemME},
	{"MT", MemMT},
	{"SR", MemSR},
	{"BM", MemBM},
}

// SimState is the SIM card readiness reported by +CPIN.
type SimState int

const (
	SimNotReady SimState = iota
	SimReady
	SimNotInserted
	SimPin
	SimPuk
)

// NetworkRegStatus is the +CREG registration status, numbered exactly as
// the modem emits it. 1 and 5 both mean "registered with a network", home
// and roaming respectively.
type NetworkRegStatus int

const (
	RegNotRegistered    NetworkRegStatus = 0
	RegConnected        NetworkRegStatus = 1
	RegSearching        NetworkRegStatus = 2
	RegDenied           NetworkRegStatus = 3
	RegUnknown          NetworkRegStatus = 4
	RegConnectedRoaming NetworkRegStatus = 5
)

// OperatorFormat selects which field of Operator is populated.
type OperatorFormat int

const (
	OperatorFormatLongName OperatorFormat = iota
	OperatorFormatShortName
	OperatorFormatNumber
	OperatorFormatInvalid
)

// OperatorMode is the +COPS mode field (automatic/manual/deregister/...).
type OperatorMode int

const (
	OperatorModeAutomatic OperatorMode = iota
	OperatorModeManual
	OperatorModeDeregister
	OperatorModeSetFormat
	OperatorModeManualAutomatic
)

// OperatorStatus is the status field of each tuple in a +COPS=? scan.
type OperatorStatus int

const (
	OperatorUnknown OperatorStatus = iota
	OperatorAvailable
	OperatorCurrent
	OperatorForbidden
)

// CallDirection is the direction field of +CLCC.
type CallDirection int

const (
	CallOutgoing CallDirection = iota
	CallIncoming
)

// CallState is the state field of +CLCC.
type CallState int

const (
	CallActive CallState = iota
	CallHeld
	CallDialing
	CallAlerting
	CallIncomingRinging
	CallWaiting
	CallDisconnected
)

// CallType is the type field of +CLCC (voice/data/fax).
type CallType int

const (
	CallTypeVoice CallType = iota
	CallTypeData
	CallTypeFax
)

// NumberType is the phonebook/call number-format field (national,
// international, unknown, ...), numbered per 3GPP TS 24.008 §10.5.4.7.
type NumberType int

const (
	NumberUnknown       NumberType = 129
	NumberInternational NumberType = 145
	NumberNational      NumberType = 161
)

// SmsStatus is the status of a stored SMS entry.
type SmsStatus int

const (
	SmsStatusAll SmsStatus = iota
	SmsStatusUnread
	SmsStatusRead
	SmsStatusUnsent
	SmsStatusSent
)

// smsStatusTokens maps the exact quoted tokens +CMGR/+CMGL report to
// SmsStatus, per §4.2.
var smsStatusTokens = map[string]SmsStatus{
	"REC UNREAD": SmsStatusUnread,
	"REC READ":   SmsStatusRead,
	"STO UNSENT": SmsStatusUnsent,
	"REC SENT":   SmsStatusSent,
}
