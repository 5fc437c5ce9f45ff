package modem

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.bug.st/serial"
)

//go:generate mockgen -source=transport.go -destination=mock_transport.go -package=modem

// Transport represents an established, bidirectional byte stream to a GSM
// modem. Typical implementations include serial ports, TCP connections to
// emulators, or in-memory fakes used for testing.
type Transport interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Close() error
}

// Dialer opens a Transport to a GSM modem. It abstracts how the connection
// is created and is used only during modem construction.
type Dialer interface {
	// Dial creates and returns a connected Transport, respecting ctx's
	// cancellation and deadline where the underlying transport allows it.
	Dial(ctx context.Context) (Transport, error)
}

// SerialDialer opens a GSM modem over a physical or virtual UART using
// go.bug.st/serial, the way toby1984-sms-gateway's initModem does.
type SerialDialer struct {
	PortName string
	BaudRate int
	// Mode overrides the full serial configuration. When nil, a mode is
	// derived from BaudRate (defaulting to 115200) with 8N1 framing.
	Mode *serial.Mode
	// ReadTimeout bounds how long a single Read blocks with no data. Zero
	// uses a 5 second default, matching the Loop's expectation that a read
	// error surfaces in bounded time rather than hanging forever.
	ReadTimeout time.Duration
}

// Dial opens the configured serial port, in 8N1 mode unless Mode overrides
// the serial configuration.
func (d SerialDialer) Dial(ctx context.Context) (Transport, error) {
	if d.PortName == "" {
		return nil, errors.New("gsm: serial port name is required")
	}
	if ctx == nil {
		return nil, errors.New("gsm: context is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mode := d.Mode
	if mode == nil {
		baud := d.BaudRate
		if baud <= 0 {
			baud = 115200
		}
		mode = &serial.Mode{
			BaudRate: baud,
			Parity:   serial.NoParity,
			DataBits: 8,
			StopBits: serial.OneStopBit,
		}
	}

	port, err := serial.Open(d.PortName, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %q: %w", d.PortName, err)
	}

	readTimeout := d.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 5 * time.Second
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %q: %w", d.PortName, err)
	}

	return port, nil
}
