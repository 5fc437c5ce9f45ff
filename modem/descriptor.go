package modem

import "github.com/i4energy/gsm-core/atproto"

// commandKind tags the in-flight command descriptor so the Loop knows how to
// interpret intermediate data lines as they arrive, replacing the original's
// string comparisons against a cmd_def field (Design Note 2: "Tagged union
// in-flight command descriptor").
type commandKind int

const (
	kindPlain commandKind = iota // no structured data lines expected
	kindRegQuery                  // +CREG? — carries the extra mode field
	kindSimStatus
	kindOperatorQuery
	kindOperatorScan
	kindCallList
	kindSendSMS
	kindReadSMS
	kindListSMS
	kindNewMessage // +CMTI URC, handled outside the command path but tagged for completeness
	kindSMSMemoryOptions
	kindSMSMemoryCurrent
	kindSMSMemorySet
	kindPhonebookMemoryOptions
	kindPhonebookMemoryCurrent
	kindPhonebookMemorySet
	kindPhonebookRead
	kindPhonebookFind
)

// inFlight is the descriptor for the command currently awaiting a final
// response. It carries exactly the fields each kind's data-line handler
// needs, rather than leaving every command to scan a shared mutable struct
// by string key.
type inFlight struct {
	kind commandKind

	// The fields below accumulate parsed data-line results until the final
	// response arrives, at which point the engine copies it into State and
	// hands it back through respChan.
	operators []atproto.Operator
	opScanner *atproto.OperatorScanner
	opCount   int

	smsEntries []atproto.SmsEntry
	pbEntries  []atproto.PhonebookEntry
	calls      []atproto.CallRecord

	smsMemoryOptions [3]atproto.MemoryBitset
	smsMemoryPools   [3]atproto.MemoryPool
	pbMemoryOptions  atproto.MemoryBitset
	pbMemory         atproto.PhonebookMemory

	// smsSentRef is the message reference +CMGS reports once a send
	// completes.
	smsSentRef int32

	// memory is the SMS/phonebook memory a list command is currently
	// iterating, threaded into ParseCMGL since the response line itself
	// carries no memory field.
	memory atproto.MemoryKind

	// index is the SMS index a kindReadSMS command requested, threaded
	// into the resulting entry since +CMGR's response carries no index
	// field of its own.
	index int
}

func newInFlight(kind commandKind) *inFlight {
	f := &inFlight{kind: kind}
	if kind == kindOperatorScan {
		f.operators = make([]atproto.Operator, 0, 16)
		f.opScanner = atproto.NewOperatorScanner(f.operators[:cap(f.operators)], &f.opCount)
	}
	return f
}
