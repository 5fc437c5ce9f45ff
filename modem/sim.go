package modem

import (
	"context"

	"github.com/i4energy/gsm-core/at"
	"github.com/i4energy/gsm-core/atproto"
)

// SIMState reports the modem's current SIM readiness.
func (m *Modem) SIMState(ctx context.Context) (atproto.SimState, error) {
	_, err := m.exec(ctx, at.CmdSimStatus, execOpts{kind: kindSimStatus})
	if err != nil {
		return atproto.SimNotReady, err
	}
	return m.state.Snapshot().SIM, nil
}
