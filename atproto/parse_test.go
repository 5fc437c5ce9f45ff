package atproto_test

import (
	"testing"

	"github.com/i4energy/gsm-core/atproto"
)

func TestParseCREGConnectedTriggersOperatorQuery(t *testing.T) {
	r := atproto.ParseCREG([]byte("+CREG: 0,1\r"), true)
	if r.Status != atproto.RegConnected {
		t.Errorf("Status = %v, want RegConnected", r.Status)
	}
	if !r.NeedsOperatorQuery {
		t.Error("expected NeedsOperatorQuery for a newly connected registration")
	}
}

func TestParseCREGURCForm(t *testing.T) {
	r := atproto.ParseCREG([]byte("+CREG: 5\r"), false)
	if r.Status != atproto.RegConnectedRoaming {
		t.Errorf("Status = %v, want RegConnectedRoaming", r.Status)
	}
	if !r.NeedsOperatorQuery {
		t.Error("expected NeedsOperatorQuery for roaming registration")
	}
}

func TestParseCREGNotRegisteredNoFollowup(t *testing.T) {
	r := atproto.ParseCREG([]byte("+CREG: 0,0\r"), true)
	if r.NeedsOperatorQuery {
		t.Error("did not expect NeedsOperatorQuery when not registered")
	}
}

func TestParseCPINSimPin(t *testing.T) {
	r := atproto.ParseCPIN([]byte("+CPIN: SIM PIN\r"))
	if r.State != atproto.SimPin {
		t.Errorf("State = %v, want SimPin", r.State)
	}
	if r.NeedsSimInfoFetch {
		t.Error("did not expect NeedsSimInfoFetch while PIN is required")
	}
}

func TestParseCPINReady(t *testing.T) {
	r := atproto.ParseCPIN([]byte("+CPIN: READY\r"))
	if r.State != atproto.SimReady {
		t.Errorf("State = %v, want SimReady", r.State)
	}
	if !r.NeedsSimInfoFetch {
		t.Error("expected NeedsSimInfoFetch once the SIM becomes ready")
	}
}

func TestOperatorScanTwoTuples(t *testing.T) {
	var count int
	dst := make([]atproto.Operator, 2)
	scanner := atproto.NewOperatorScanner(dst, &count)

	payload := `(2,"Op1","O1","00101"),(1,"Op2","O2","00102")`
	for i := 0; i < len(payload); i++ {
		scanner.Feed(payload[i])
	}

	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
	if scanner.OperatorIndex() != 2 {
		t.Fatalf("OperatorIndex() = %d, want 2", scanner.OperatorIndex())
	}

	want0 := atproto.Operator{Status: atproto.OperatorCurrent, LongName: "Op1", ShortName: "O1", Numeric: 101}
	want1 := atproto.Operator{Status: atproto.OperatorAvailable, LongName: "Op2", ShortName: "O2", Numeric: 102}
	if dst[0] != want0 {
		t.Errorf("dst[0] = %+v, want %+v", dst[0], want0)
	}
	if dst[1] != want1 {
		t.Errorf("dst[1] = %+v, want %+v", dst[1], want1)
	}
}

func TestOperatorScanBoundedByDestination(t *testing.T) {
	var count int
	dst := make([]atproto.Operator, 1)
	scanner := atproto.NewOperatorScanner(dst, &count)

	payload := `(2,"Op1","O1","00101"),(1,"Op2","O2","00102"),(1,"Op3","O3","00103")`
	for i := 0; i < len(payload); i++ {
		scanner.Feed(payload[i])
	}

	if scanner.OperatorIndex() > len(dst) {
		t.Fatalf("OperatorIndex() = %d exceeds destination capacity %d", scanner.OperatorIndex(), len(dst))
	}
	if count != 1 {
		t.Errorf("count = %d, want 1 (only the destination's one slot fills)", count)
	}
}

func TestParseCPMSCurrentThreeSlots(t *testing.T) {
	line := []byte(`+CPMS: "ME",10,20,"SM",2,10,"ME",0,20` + "\r")
	got := atproto.ParseCPMSCurrent(line)

	want := [3]atproto.MemoryPool{
		{Current: atproto.MemME, Used: 10, Total: 20},
		{Current: atproto.MemSM, Used: 2, Total: 10},
		{Current: atproto.MemME, Used: 0, Total: 20},
	}
	if got != want {
		t.Errorf("ParseCPMSCurrent() = %+v, want %+v", got, want)
	}
}

func TestParseCPMSOptionsBitset(t *testing.T) {
	line := []byte(`+CPMS: ("SM","ME"),("SM"),("SM","ME","MT")` + "\r")
	got := atproto.ParseCPMSOptions(line)

	want0 := atproto.MemoryBitset(1<<atproto.MemSM | 1<<atproto.MemME)
	want1 := atproto.MemoryBitset(1 << atproto.MemSM)
	want2 := atproto.MemoryBitset(1<<atproto.MemSM | 1<<atproto.MemME | 1<<atproto.MemMT)

	if got[0] != want0 || got[1] != want1 || got[2] != want2 {
		t.Errorf("ParseCPMSOptions() = %v, want [%v %v %v]", got, want0, want1, want2)
	}
}

func TestParseCMGRFillsCallerEntry(t *testing.T) {
	line := []byte(`+CMGR: "REC UNREAD","+1234567890","John",15/06/24,10:20:30` + "\r")
	entry := atproto.SmsEntry{Memory: atproto.MemSM, Position: 3}
	atproto.ParseCMGR(line, &entry)

	if entry.Status != atproto.SmsStatusUnread {
		t.Errorf("Status = %v, want SmsStatusUnread", entry.Status)
	}
	if entry.Number != "+1234567890" {
		t.Errorf("Number = %q, want %q", entry.Number, "+1234567890")
	}
	if entry.Name != "John" {
		t.Errorf("Name = %q, want %q", entry.Name, "John")
	}
	if entry.DateTime.Year != 2024 {
		t.Errorf("DateTime.Year = %d, want 2024", entry.DateTime.Year)
	}
	// Caller-supplied fields must survive untouched.
	if entry.Memory != atproto.MemSM || entry.Position != 3 {
		t.Errorf("caller fields clobbered: memory=%v position=%d", entry.Memory, entry.Position)
	}
}

func TestParseCMTI(t *testing.T) {
	r := atproto.ParseCMTI([]byte(`+CMTI: "SM",7` + "\r"))
	if r.Memory != atproto.MemSM {
		t.Errorf("Memory = %v, want MemSM", r.Memory)
	}
	if r.Position != 7 {
		t.Errorf("Position = %d, want 7", r.Position)
	}
}

func TestParseCLCC(t *testing.T) {
	line := []byte(`+CLCC: 1,0,0,0,0,"+1234567890",145,"Alice"` + "\r")
	got := atproto.ParseCLCC(line)

	if got.ID != 1 || got.Direction != atproto.CallOutgoing || got.State != atproto.CallActive {
		t.Errorf("unexpected call record: %+v", got)
	}
	if got.Number != "+1234567890" || got.Name != "Alice" {
		t.Errorf("unexpected number/name: %+v", got)
	}
}

func TestParseCOPSNumericFormat(t *testing.T) {
	line := []byte(`+COPS: 0,2,"310260"` + "\r")
	op := atproto.ParseCOPS(line)
	if op.Format != atproto.OperatorFormatNumber {
		t.Errorf("Format = %v, want OperatorFormatNumber", op.Format)
	}
	if op.Numeric != 310260 {
		t.Errorf("Numeric = %d, want 310260", op.Numeric)
	}
}

func TestParseCOPSNoFormatField(t *testing.T) {
	op := atproto.ParseCOPS([]byte("+COPS: 0\r"))
	if op.Format != atproto.OperatorFormatInvalid {
		t.Errorf("Format = %v, want OperatorFormatInvalid when absent", op.Format)
	}
}

func TestParsePhonebookTuple(t *testing.T) {
	line := []byte(`+CPBR: 3,"Bob",145,"+1234567890"` + "\r")
	e := atproto.ParseCPBR(line)
	want := atproto.PhonebookEntry{Position: 3, Name: "Bob", Type: atproto.NumberInternational, Number: "+1234567890"}
	if e != want {
		t.Errorf("ParseCPBR() = %+v, want %+v", e, want)
	}
}
