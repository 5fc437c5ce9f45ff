package modem

import (
	"context"
	"fmt"
	"strings"

	"github.com/i4energy/gsm-core/at"
	"github.com/i4energy/gsm-core/atproto"
)

// SendSMS sends a text message to recipient (international format, e.g.
// "+1234567890"), blocking until the modem accepts it. Network delivery to
// the final recipient happens asynchronously.
func (m *Modem) SendSMS(ctx context.Context, recipient, message string) error {
	resp, err := m.exec(ctx, at.CmdSendSMS(recipient), execOpts{kind: kindPlain})
	if err != nil {
		return fmt.Errorf("AT+CMGS command failed: %w", err)
	}
	if !strings.Contains(strings.Join(resp.lines, "\n"), at.Prompt) {
		return fmt.Errorf("did not receive SMS prompt, got: %q", resp.lines)
	}

	body := message + at.CtrlZ
	if _, err := m.exec(ctx, body, execOpts{kind: kindSendSMS}); err != nil {
		return fmt.Errorf("SMS send failed: %w", err)
	}
	return nil
}

// ListSMS returns every entry currently stored in memory whose status
// matches statusFilter ("ALL", "REC UNREAD", "REC READ", "STO UNSENT",
// "STO SENT"), tagged with memory since AT+CMGL's response carries no
// memory field of its own.
func (m *Modem) ListSMS(ctx context.Context, memory atproto.MemoryKind, statusFilter string) ([]atproto.SmsEntry, error) {
	resp, err := m.exec(ctx, at.CmdListSMS(statusFilter), execOpts{kind: kindListSMS, memory: memory})
	if err != nil {
		return nil, err
	}
	entries, _ := resp.data.([]atproto.SmsEntry)
	return entries, nil
}

// ReadSMS reads a single stored message by index.
func (m *Modem) ReadSMS(ctx context.Context, memory atproto.MemoryKind, index int) (atproto.SmsEntry, error) {
	resp, err := m.exec(ctx, at.CmdReadSMS(index), execOpts{kind: kindReadSMS, memory: memory, index: index})
	if err != nil {
		return atproto.SmsEntry{}, err
	}
	entry, _ := resp.data.(atproto.SmsEntry)
	return entry, nil
}

// DeleteSMS removes a single stored message by index.
func (m *Modem) DeleteSMS(ctx context.Context, index int) error {
	_, err := m.exec(ctx, at.CmdDeleteSMS(index), execOpts{kind: kindPlain})
	return err
}

// SMSMemoryOptions reports which memories are available for each of the
// three SMS slots (operation, receive, sent).
func (m *Modem) SMSMemoryOptions(ctx context.Context) ([3]atproto.MemoryBitset, error) {
	resp, err := m.exec(ctx, at.CmdMemoryOptions, execOpts{kind: kindSMSMemoryOptions})
	if err != nil {
		return [3]atproto.MemoryBitset{}, err
	}
	bitsets, _ := resp.data.([3]atproto.MemoryBitset)
	return bitsets, nil
}

// SMSMemoryCurrent reports the currently selected SMS memories and their
// usage.
func (m *Modem) SMSMemoryCurrent(ctx context.Context) ([3]atproto.MemoryPool, error) {
	resp, err := m.exec(ctx, at.CmdMemoryGet, execOpts{kind: kindSMSMemoryCurrent})
	if err != nil {
		return [3]atproto.MemoryPool{}, err
	}
	pools, _ := resp.data.([3]atproto.MemoryPool)
	return pools, nil
}

// SetSMSMemory assigns the three SMS memory slots.
func (m *Modem) SetSMSMemory(ctx context.Context, operation, receive, sent string) ([3]atproto.MemoryPool, error) {
	resp, err := m.exec(ctx, at.CmdMemorySet(operation, receive, sent), execOpts{kind: kindSMSMemorySet})
	if err != nil {
		return [3]atproto.MemoryPool{}, err
	}
	pools, _ := resp.data.([3]atproto.MemoryPool)
	return pools, nil
}
