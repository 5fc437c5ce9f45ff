package modem

import (
	"context"

	"github.com/i4energy/gsm-core/at"
	"github.com/i4energy/gsm-core/atproto"
)

// PhonebookMemoryOptions reports which memories are available for the
// phonebook.
func (m *Modem) PhonebookMemoryOptions(ctx context.Context) (atproto.MemoryBitset, error) {
	resp, err := m.exec(ctx, at.CmdPhonebookOptions, execOpts{kind: kindPhonebookMemoryOptions})
	if err != nil {
		return 0, err
	}
	bits, _ := resp.data.(atproto.MemoryBitset)
	return bits, nil
}

// PhonebookMemoryCurrent reports the phonebook's currently selected memory
// and usage.
func (m *Modem) PhonebookMemoryCurrent(ctx context.Context) (atproto.PhonebookMemory, error) {
	resp, err := m.exec(ctx, at.CmdPhonebookGet, execOpts{kind: kindPhonebookMemoryCurrent})
	if err != nil {
		return atproto.PhonebookMemory{}, err
	}
	pb, _ := resp.data.(atproto.PhonebookMemory)
	return pb, nil
}

// SetPhonebookMemory selects the active phonebook memory.
func (m *Modem) SetPhonebookMemory(ctx context.Context, memory string) (atproto.PhonebookMemory, error) {
	resp, err := m.exec(ctx, at.CmdPhonebookSet(memory), execOpts{kind: kindPhonebookMemorySet})
	if err != nil {
		return atproto.PhonebookMemory{}, err
	}
	pb, _ := resp.data.(atproto.PhonebookMemory)
	return pb, nil
}

// ReadPhonebook reads entries in the inclusive index range [from, to].
func (m *Modem) ReadPhonebook(ctx context.Context, from, to int) ([]atproto.PhonebookEntry, error) {
	resp, err := m.exec(ctx, at.CmdPhonebookRead(from, to), execOpts{kind: kindPhonebookRead})
	if err != nil {
		return nil, err
	}
	entries, _ := resp.data.([]atproto.PhonebookEntry)
	return entries, nil
}

// FindPhonebook searches the phonebook for entries whose name starts with
// namePrefix.
func (m *Modem) FindPhonebook(ctx context.Context, namePrefix string) ([]atproto.PhonebookEntry, error) {
	resp, err := m.exec(ctx, at.CmdPhonebookFind(namePrefix), execOpts{kind: kindPhonebookFind})
	if err != nil {
		return nil, err
	}
	entries, _ := resp.data.([]atproto.PhonebookEntry)
	return entries, nil
}

// WritePhonebook adds or replaces a phonebook entry. A position of 0 lets
// the modem pick the first free slot.
func (m *Modem) WritePhonebook(ctx context.Context, position int, number string, numberType atproto.NumberType, name string) error {
	_, err := m.exec(ctx, at.CmdPhonebookWrite(position, number, int(numberType), name), execOpts{kind: kindPlain})
	return err
}
