package modem_test

import (
	"context"
	"io"
	"testing"

	"github.com/i4energy/gsm-core/atproto"
	"go.uber.org/mock/gomock"
)

func TestSIMState(t *testing.T) {
	m, mockTransport, ctx := newRunningModemForTest(t)

	allowEOF := make(chan struct{})
	go func() {
		if err := m.Loop(ctx); err != nil && err != context.Canceled && err != io.EOF {
			t.Errorf("modem loop error: %v", err)
		}
	}()

	mockTransport.EXPECT().Write([]byte("AT+CPIN?\r"))
	mockTransport.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
		return copy(p, "+CPIN: READY\r\nOK\r\n"), nil
	})
	mockTransport.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
		<-allowEOF
		return 0, io.EOF
	})
	mockTransport.EXPECT().Close().Return(nil)

	state, err := m.SIMState(ctx)
	close(allowEOF)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != atproto.SimReady {
		t.Errorf("state = %v, want SimReady", state)
	}
}
