package modem

import (
	"context"

	"github.com/i4energy/gsm-core/at"
	"github.com/i4energy/gsm-core/atproto"
)

// RegistrationStatus queries current network registration status.
func (m *Modem) RegistrationStatus(ctx context.Context) (atproto.NetworkRegStatus, error) {
	_, err := m.exec(ctx, at.CmdRegStatus, execOpts{kind: kindRegQuery})
	if err != nil {
		return atproto.RegUnknown, err
	}
	return m.state.Snapshot().Reg, nil
}

// CurrentOperator queries the operator currently selected.
func (m *Modem) CurrentOperator(ctx context.Context) (atproto.Operator, error) {
	resp, err := m.exec(ctx, at.CmdOperatorGet, execOpts{kind: kindOperatorQuery})
	if err != nil {
		return atproto.Operator{}, err
	}
	op, _ := resp.data.(atproto.Operator)
	return op, nil
}

// ScanOperators triggers a +COPS=? scan of visible operators. This can take
// tens of seconds on a real modem, so callers should pass a context with a
// generous deadline.
func (m *Modem) ScanOperators(ctx context.Context) ([]atproto.Operator, error) {
	resp, err := m.exec(ctx, at.CmdOperatorScan, execOpts{kind: kindOperatorScan})
	if err != nil {
		return nil, err
	}
	ops, _ := resp.data.([]atproto.Operator)
	return ops, nil
}
