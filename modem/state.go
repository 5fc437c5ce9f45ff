package modem

import (
	"sync"

	"github.com/i4energy/gsm-core/atproto"
)

// State is the modem's current view of the device, owned exclusively by the
// Loop goroutine. Every field is written only while processing a response on
// the engine thread; State.Snapshot is the one method other goroutines may
// call, and it copies under mu rather than handing out the live struct
// (Design Note 1: no package-level globals, an engine-owned struct passed by
// explicit reference instead).
type State struct {
	mu sync.RWMutex

	sim       atproto.SimState
	reg       atproto.NetworkRegStatus
	operator  atproto.Operator
	smsMemory [3]atproto.MemoryPool
	pbMemory  atproto.PhonebookMemory
	calls     []atproto.CallRecord
}

// Snapshot is a point-in-time copy of State safe to hand to callers outside
// the engine goroutine (HTTP handlers, tests).
type Snapshot struct {
	SIM       atproto.SimState
	Reg       atproto.NetworkRegStatus
	Operator  atproto.Operator
	SMSMemory [3]atproto.MemoryPool
	PBMemory  atproto.PhonebookMemory
	Calls     []atproto.CallRecord
}

// Snapshot copies the current state under a read lock.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	calls := make([]atproto.CallRecord, len(s.calls))
	copy(calls, s.calls)
	return Snapshot{
		SIM:       s.sim,
		Reg:       s.reg,
		Operator:  s.operator,
		SMSMemory: s.smsMemory,
		PBMemory:  s.pbMemory,
		Calls:     calls,
	}
}

func (s *State) setSIM(state atproto.SimState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sim = state
}

func (s *State) setReg(status atproto.NetworkRegStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reg = status
}

func (s *State) setOperator(op atproto.Operator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.operator = op
}

func (s *State) setSMSMemory(pools [3]atproto.MemoryPool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.smsMemory = pools
}

func (s *State) setPhonebookMemory(pb atproto.PhonebookMemory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pbMemory = pb
}

func (s *State) setCalls(calls []atproto.CallRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = calls
}

