package modem

import "github.com/i4energy/gsm-core/atproto"

// EventCode names the kind of asynchronous notification an Event carries,
// mirroring the original driver's small fixed set of callback reasons.
type EventCode int

const (
	EventRegistrationChanged EventCode = iota
	EventSIMStateChanged
	EventIncomingSMS
	EventIncomingCall
	EventCallStateChanged
	EventSMSSent
)

func (c EventCode) String() string {
	switch c {
	case EventRegistrationChanged:
		return "registration_changed"
	case EventSIMStateChanged:
		return "sim_state_changed"
	case EventIncomingSMS:
		return "incoming_sms"
	case EventIncomingCall:
		return "incoming_call"
	case EventCallStateChanged:
		return "call_state_changed"
	case EventSMSSent:
		return "sms_sent"
	default:
		return "unknown"
	}
}

// Event is one notification handed to every registered listener. Only the
// field matching Code is meaningful; the others are the zero value.
type Event struct {
	Code EventCode

	Registration atproto.NetworkRegStatus
	SIM          atproto.SimState
	SMS          atproto.CMTIResult
	Call         atproto.CallRecord
	SMSRef       int32
}

// Listener receives events synchronously on the engine goroutine. Per the
// original's callback contract, a Listener must not block — it must return
// quickly or queue the work itself (as MQTTEventSink does).
type Listener func(Event)

// Dispatcher fans Event values out to every registered Listener, in
// registration order, on whichever goroutine calls Dispatch (always the
// engine loop in this driver). It holds no lock of its own: listeners are
// registered before Loop starts and never removed, so no concurrent
// mutation of the slice is possible.
type Dispatcher struct {
	listeners []Listener
}

// Subscribe registers l to receive every future Event. Must be called
// before Loop starts.
func (d *Dispatcher) Subscribe(l Listener) {
	d.listeners = append(d.listeners, l)
}

// Dispatch delivers ev to every listener in turn. A listener that panics
// takes down the engine goroutine like any other panic — listeners are
// expected to handle their own errors, the same discipline the original
// places on its callback functions.
func (d *Dispatcher) Dispatch(ev Event) {
	for _, l := range d.listeners {
		l(ev)
	}
}
