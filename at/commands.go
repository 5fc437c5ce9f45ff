package at

import "fmt"

// Command strings for the modem init sequence and everyday operation.
// Kept as plain constants/builders rather than a templating layer because
// the AT command set is small and fixed; see Classify and Splitter for the
// response side of the protocol.
const (
	CmdAt            = "AT"
	CmdEchoOff       = "ATE0"
	CmdVerboseErrors = "AT+CMEE=2"
	CmdSimStatus     = "AT+CPIN?"
	CmdSetTextMode   = "AT+CMGF=1"
	CmdCharsetGSM    = `AT+CSCS="GSM"`
	CmdRegStatus     = "AT+CREG?"
	CmdRegURC        = "AT+CREG=1"
	CmdOperatorGet   = "AT+COPS?"
	CmdOperatorScan  = "AT+COPS=?"
	CmdCallList      = "AT+CLCC"
	CmdHangup        = "ATH"
	CmdAnswer        = "ATA"
)

// SIM status tokens as reported by +CPIN.
const (
	SimReady        = "READY"
	SimNotReady     = "NOT READY"
	SimNotInserted  = "NOT INSERTED"
	SimPin          = "SIM PIN"
	SimPuk          = "SIM PUK"
)

// CmdDial builds the ATD command used to originate a voice call.
func CmdDial(number string) string {
	return fmt.Sprintf("ATD%s;", number)
}

// CmdPinSubmit builds the AT+CPIN command used to unlock a SIM.
func CmdPinSubmit(pin string) string {
	return fmt.Sprintf(`AT+CPIN="%s"`, pin)
}

// CmdSendSMS builds the first line of a two-line +CMGS exchange; the body
// and Ctrl+Z terminator are sent as a second, separate write.
func CmdSendSMS(recipient string) string {
	return fmt.Sprintf(`AT+CMGS="%s"`, recipient)
}

// CmdReadSMS builds AT+CMGR for a single message index.
func CmdReadSMS(index int) string {
	return fmt.Sprintf("AT+CMGR=%d", index)
}

// CmdDeleteSMS builds AT+CMGD for a single message index.
func CmdDeleteSMS(index int) string {
	return fmt.Sprintf("AT+CMGD=%d", index)
}

// CmdListSMS builds AT+CMGL for a status filter, e.g. "ALL", "REC UNREAD".
func CmdListSMS(statusFilter string) string {
	return fmt.Sprintf(`AT+CMGL="%s"`, statusFilter)
}

// CmdMemoryOptions builds AT+CPMS=? to enumerate available SMS memories.
const CmdMemoryOptions = "AT+CPMS=?"

// CmdMemoryGet builds AT+CPMS? to report current SMS memory assignment.
const CmdMemoryGet = "AT+CPMS?"

// CmdMemorySet builds AT+CPMS to assign SMS memories.
func CmdMemorySet(operation, receive, sent string) string {
	return fmt.Sprintf(`AT+CPMS="%s","%s","%s"`, operation, receive, sent)
}

// CmdPhonebookOptions builds AT+CPBS=? to enumerate available phonebook memories.
const CmdPhonebookOptions = "AT+CPBS=?"

// CmdPhonebookGet builds AT+CPBS? to report the current phonebook memory.
const CmdPhonebookGet = "AT+CPBS?"

// CmdPhonebookSet builds AT+CPBS to select the active phonebook memory.
func CmdPhonebookSet(memory string) string {
	return fmt.Sprintf(`AT+CPBS="%s"`, memory)
}

// CmdPhonebookRead builds AT+CPBR for an inclusive index range.
func CmdPhonebookRead(from, to int) string {
	return fmt.Sprintf("AT+CPBR=%d,%d", from, to)
}

// CmdPhonebookFind builds AT+CPBF for a name prefix search.
func CmdPhonebookFind(namePrefix string) string {
	return fmt.Sprintf(`AT+CPBF="%s"`, namePrefix)
}

// CmdPhonebookWrite builds AT+CPBW to add or replace a phonebook entry.
// A position of 0 lets the modem pick the first free slot.
func CmdPhonebookWrite(position int, number string, numberType int, name string) string {
	if position <= 0 {
		return fmt.Sprintf(`AT+CPBW=,"%s",%d,"%s"`, number, numberType, name)
	}
	return fmt.Sprintf(`AT+CPBW=%d,"%s",%d,"%s"`, position, number, numberType, name)
}
