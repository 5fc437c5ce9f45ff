package modem

import (
	"context"

	"github.com/i4energy/gsm-core/at"
	"github.com/i4energy/gsm-core/atproto"
)

// Dial originates a voice call to number.
func (m *Modem) Dial(ctx context.Context, number string) error {
	_, err := m.exec(ctx, at.CmdDial(number), execOpts{kind: kindPlain})
	return err
}

// Answer accepts an incoming call.
func (m *Modem) Answer(ctx context.Context) error {
	_, err := m.exec(ctx, at.CmdAnswer, execOpts{kind: kindPlain})
	return err
}

// Hangup ends the active or ringing call.
func (m *Modem) Hangup(ctx context.Context) error {
	_, err := m.exec(ctx, at.CmdHangup, execOpts{kind: kindPlain})
	return err
}

// Calls lists all active, held, or ringing calls.
func (m *Modem) Calls(ctx context.Context) ([]atproto.CallRecord, error) {
	resp, err := m.exec(ctx, at.CmdCallList, execOpts{kind: kindCallList})
	if err != nil {
		return nil, err
	}
	calls, _ := resp.data.([]atproto.CallRecord)
	return calls, nil
}
