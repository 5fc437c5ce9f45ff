package modem_test

import (
	"context"
	"io"
	"testing"

	"github.com/i4energy/gsm-core/atproto"
	"github.com/i4energy/gsm-core/modem"
	"go.uber.org/mock/gomock"
)

func newRunningModemForTest(t *testing.T) (*modem.Modem, *modem.MockTransport, context.Context) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockTransport := modem.NewMockTransport(ctrl)
	mockDialer := modem.NewMockDialer(ctrl)

	gomock.InOrder(
		concatAny(
			[]any{
				mockDialer.EXPECT().Dial(gomock.Any()).Return(mockTransport, nil),
			},
			initMockCalls(mockTransport),
		)...,
	)

	config, err := modem.NewConfigBuilder().WithDialer(mockDialer).Build()
	if err != nil {
		t.Fatalf("unexpected error from Build(): %v", err)
	}

	ctx := context.Background()
	m, err := modem.New(ctx, config)
	if err != nil {
		t.Fatalf("failed to create modem: %v", err)
	}
	t.Cleanup(func() { m.Close() })

	return m, mockTransport, ctx
}

func TestRegistrationStatus(t *testing.T) {
	m, mockTransport, ctx := newRunningModemForTest(t)

	allowEOF := make(chan struct{})
	go func() {
		if err := m.Loop(ctx); err != nil && err != context.Canceled && err != io.EOF {
			t.Errorf("modem loop error: %v", err)
		}
	}()

	mockTransport.EXPECT().Write([]byte("AT+CREG?\r"))
	mockTransport.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
		return copy(p, "+CREG: 0,0\r\nOK\r\n"), nil
	})
	mockTransport.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
		<-allowEOF
		return 0, io.EOF
	})
	mockTransport.EXPECT().Close().Return(nil)

	status, err := m.RegistrationStatus(ctx)
	close(allowEOF)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != atproto.RegNotRegistered {
		t.Errorf("status = %v, want RegNotRegistered", status)
	}
}

func TestCurrentOperator(t *testing.T) {
	m, mockTransport, ctx := newRunningModemForTest(t)

	allowEOF := make(chan struct{})
	go func() {
		if err := m.Loop(ctx); err != nil && err != context.Canceled && err != io.EOF {
			t.Errorf("modem loop error: %v", err)
		}
	}()

	mockTransport.EXPECT().Write([]byte("AT+COPS?\r"))
	mockTransport.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
		return copy(p, `+COPS: 0,0,"Test Operator"`+"\r\nOK\r\n"), nil
	})
	mockTransport.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
		<-allowEOF
		return 0, io.EOF
	})
	mockTransport.EXPECT().Close().Return(nil)

	op, err := m.CurrentOperator(ctx)
	close(allowEOF)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.LongName != "Test Operator" {
		t.Errorf("LongName = %q, want %q", op.LongName, "Test Operator")
	}
}

func TestScanOperators(t *testing.T) {
	m, mockTransport, ctx := newRunningModemForTest(t)

	allowEOF := make(chan struct{})
	go func() {
		if err := m.Loop(ctx); err != nil && err != context.Canceled && err != io.EOF {
			t.Errorf("modem loop error: %v", err)
		}
	}()

	mockTransport.EXPECT().Write([]byte("AT+COPS=?\r"))
	mockTransport.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
		return copy(p, `+COPS: (2,"Op1","O1","00101"),(1,"Op2","O2","00102")`+"\r\nOK\r\n"), nil
	})
	mockTransport.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
		<-allowEOF
		return 0, io.EOF
	})
	mockTransport.EXPECT().Close().Return(nil)

	ops, err := m.ScanOperators(ctx)
	close(allowEOF)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("len(ops) = %d, want 2", len(ops))
	}
	if ops[0].LongName != "Op1" || ops[1].LongName != "Op2" {
		t.Errorf("unexpected operators: %+v", ops)
	}
}
