package modem

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/i4energy/gsm-core/at"
	"github.com/i4energy/gsm-core/atproto"
)

// Modem represents a GSM/3G/4G cellular modem that communicates via AT
// commands. It provides thread-safe access to the command surface through a
// centralized event loop that owns all transport I/O and all mutable device
// state.
type Modem struct {
	transport   Transport
	config      Config
	closed      bool
	loopRunning bool
	atTimeout   time.Duration
	simPIN      string

	// state is the engine-owned device state (Design Note 1). Only Loop's
	// goroutine writes to it; State.Snapshot is the only safe way in.
	state *State

	// dispatcher fans URCs and state transitions out to registered
	// Listeners (§C6). Subscribe before calling Loop.
	dispatcher *Dispatcher

	urcChan  chan string
	commands chan *commandRequest

	// pendingSelf holds follow-up commands the engine enqueues for itself
	// (e.g. a +COPS? refresh after +CREG reports newly connected). Only
	// ever touched from the Loop goroutine, so it needs no lock.
	pendingSelf []*commandRequest

	loopCtx    context.Context
	loopCancel context.CancelFunc
}

// queueSelf appends an internally-generated command request to run once the
// Loop is next idle, without going through the external m.commands channel
// (which would deadlock since Loop is both the only sender candidate here
// and the only receiver).
func (m *Modem) queueSelf(cmd string, kind commandKind) {
	m.pendingSelf = append(m.pendingSelf, &commandRequest{cmd: cmd, kind: kind})
}

// commandRequest is an AT command request to be executed by the Loop. kind
// tags how the Loop should interpret intermediate data lines while this
// command is in flight (Design Note 2: tagged union in-flight descriptor).
type commandRequest struct {
	cmd      string
	kind     commandKind
	memory   atproto.MemoryKind
	index    int
	respChan chan commandResponse
	ctx      context.Context
}

// commandResponse is the result of one AT command execution: the raw lines
// collected, any structured payload the descriptor's kind produced, and an
// error — either a transport failure or a *CommandError carrying the
// terminal Status.
type commandResponse struct {
	lines []string
	data  any
	err   error
}

// PollConfig configures polling operations like waiting for SIM readiness.
type PollConfig struct {
	Interval   time.Duration
	Timeout    time.Duration
	MaxRetries int
}

// New creates a new Modem, dials the transport, and runs the init sequence.
// Loop must be started separately before any command-surface method is used.
func New(ctx context.Context, config Config) (*Modem, error) {
	if config.Dialer == nil {
		return nil, ErrNoDialer
	}
	config.setDefaults()

	transport, err := config.Dialer.Dial(ctx)
	if err != nil {
		return nil, err
	}
	if transport == nil {
		return nil, ErrNotInitialized
	}

	m := &Modem{
		atTimeout:  config.ATTimeout,
		simPIN:     config.SimPIN,
		transport:  transport,
		config:     config,
		state:      &State{},
		dispatcher: &Dispatcher{},
		urcChan:    make(chan string, 100),
		commands:   make(chan *commandRequest),
	}

	m.loopCtx, m.loopCancel = context.WithCancel(ctx)

	initCtx := ctx
	if config.InitTimeout > 0 {
		var cancel context.CancelFunc
		initCtx, cancel = context.WithTimeout(ctx, config.InitTimeout)
		defer cancel()
	}

	if err := m.init(initCtx); err != nil {
		transport.Close()
		return nil, fmt.Errorf("initialize modem: %w", err)
	}

	return m, nil
}

// Subscribe registers a Listener for device events. Must be called before
// Loop starts; see Dispatcher.Subscribe.
func (m *Modem) Subscribe(l Listener) {
	m.dispatcher.Subscribe(l)
}

// State returns the engine-owned device state. Safe to call from any
// goroutine; only Snapshot() reads are safe outside the Loop goroutine.
func (m *Modem) State() *State {
	return m.state
}

// Loop is the main event loop owning all transport I/O. It must be called
// exactly once, typically in its own goroutine, after New and before any
// command-surface method. It is the only goroutine that reads the
// transport, so URCs are never lost to a concurrent reader and device state
// is never mutated from two goroutines at once.
func (m *Modem) Loop(ctx context.Context) error {
	if m.loopRunning {
		return ErrLoopRunning
	}
	m.loopRunning = true
	defer func() { m.loopRunning = false }()

	// Either the caller's ctx or Close()'s loopCancel must be able to stop
	// the loop, so the two are merged into one.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-m.loopCtx.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	scanner := bufio.NewScanner(m.transport)
	scanner.Split(at.Splitter)

	tokens := make(chan string, 10)
	scanErrs := make(chan error, 1)

	go func() {
		defer close(tokens)
		for scanner.Scan() {
			token := scanner.Text()
			if token == "" {
				continue
			}
			select {
			case tokens <- token:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case scanErrs <- err:
			case <-ctx.Done():
			}
		}
	}()

	var currentCmd *commandRequest
	var currentFlight *inFlight
	var currentLines []string

	finish := func(resp commandResponse) {
		if currentCmd != nil && currentCmd.respChan != nil {
			currentCmd.respChan <- resp
		}
		currentCmd = nil
		currentFlight = nil
		currentLines = nil
	}

	startNext := func(req *commandRequest) bool {
		wire := strings.TrimSpace(req.cmd) + "\r"
		if _, err := m.transport.Write([]byte(wire)); err != nil {
			if req.respChan != nil {
				req.respChan <- commandResponse{err: fmt.Errorf("write command %q: %w", req.cmd, err)}
			}
			return false
		}
		currentCmd = req
		currentFlight = newInFlight(req.kind)
		currentFlight.memory = req.memory
		currentFlight.index = req.index
		currentLines = nil
		return true
	}

	for {
		if currentCmd == nil && len(m.pendingSelf) > 0 {
			req := m.pendingSelf[0]
			m.pendingSelf = m.pendingSelf[1:]
			startNext(req)
			continue
		}

		// While a command is in flight, new requests wait in m.commands and
		// only the in-flight command's own deadline can end it early.
		cmds := m.commands
		var cmdDone <-chan struct{}
		if currentCmd != nil {
			cmds = nil
			if currentCmd.ctx != nil {
				cmdDone = currentCmd.ctx.Done()
			}
		}

		select {
		case <-ctx.Done():
			finish(commandResponse{err: ctx.Err()})
			return ctx.Err()

		case req := <-cmds:
			startNext(req)

		case <-cmdDone:
			finish(commandResponse{err: &CommandError{Status: StatusTimeout, Response: currentCmd.ctx.Err().Error()}})

		case token, ok := <-tokens:
			if !ok {
				finish(commandResponse{err: io.EOF})
				return io.EOF
			}

			respType := at.Classify(token)
			switch respType {
			case at.TypeURC:
				m.handleURC(token)

			case at.TypeFinal:
				currentLines = append(currentLines, token)
				status := classifyFinal(token)
				if status == StatusOK {
					m.applyFlight(currentFlight)
				}
				resp := commandResponse{lines: currentLines, data: m.collectFlight(currentFlight)}
				if status != StatusOK {
					resp.err = &CommandError{Status: status, Response: token}
				}
				finish(resp)

			case at.TypeData:
				m.dispatchDataLine(token, currentFlight, currentCmd != nil)
				if currentCmd != nil {
					currentLines = append(currentLines, token)
				}

			case at.TypePrompt:
				currentLines = append(currentLines, token)
				finish(commandResponse{lines: currentLines})
			}

			if currentCmd != nil && currentCmd.ctx != nil {
				select {
				case <-currentCmd.ctx.Done():
					finish(commandResponse{err: &CommandError{Status: StatusTimeout, Response: currentCmd.ctx.Err().Error()}})
				default:
				}
			}

		case err := <-scanErrs:
			finish(commandResponse{err: fmt.Errorf("read error: %w", err)})
			return fmt.Errorf("scanner error: %w", err)
		}
	}
}

// handleURC processes a token at.Classify reported as TypeURC (+CMTI: and
// RING). +CREG:/+CPIN: lines are classified as data and never reach it;
// dispatchDataLine handles them whether or not a query is in flight.
func (m *Modem) handleURC(token string) {
	switch {
	case strings.HasPrefix(token, at.UrcNewMsg):
		r := atproto.ParseCMTI([]byte(token))
		m.dispatcher.Dispatch(Event{Code: EventIncomingSMS, SMS: r})
	case token == at.UrcCall:
		m.dispatcher.Dispatch(Event{Code: EventIncomingCall})
	}

	select {
	case m.urcChan <- token:
	default:
		// Buffered URC channel full; drop rather than block the engine.
	}
}

// dispatchDataLine folds one TypeData line into the current command's
// collected results. +CREG:/+CPIN: lines are always treated as a status
// change (State updated, event dispatched, line copied to the URC channel);
// the in-flight command only decides whether a +CREG: line is parsed in the
// query form, with its leading mode field skipped (an AT+CREG? query is in
// flight), or in the status-only URC form.
func (m *Modem) dispatchDataLine(token string, flight *inFlight, haveCmd bool) {
	switch {
	case strings.HasPrefix(token, at.UrcRegistration):
		skipFirst := haveCmd && flight != nil && flight.kind == kindRegQuery
		r := atproto.ParseCREG([]byte(token), skipFirst)
		m.state.setReg(r.Status)
		m.dispatcher.Dispatch(Event{Code: EventRegistrationChanged, Registration: r.Status})
		if r.NeedsOperatorQuery {
			m.queueSelf(at.CmdOperatorGet, kindOperatorQuery)
		}
		select {
		case m.urcChan <- token:
		default:
		}
		return

	case strings.HasPrefix(token, at.UrcSimStatus):
		r := atproto.ParseCPIN([]byte(token))
		m.state.setSIM(r.State)
		m.dispatcher.Dispatch(Event{Code: EventSIMStateChanged, SIM: r.State})
		select {
		case m.urcChan <- token:
		default:
		}
		return
	}

	if flight == nil {
		return
	}

	switch flight.kind {
	case kindOperatorQuery:
		op := atproto.ParseCOPS([]byte(token))
		flight.operators = append(flight.operators, op)

	case kindOperatorScan:
		// token is "+COPS: (stat,"long","short",num),..." — strip the
		// 7-byte prefix and feed the rest byte by byte to the scanner.
		payload := token
		if strings.HasPrefix(payload, "+COPS:") && len(payload) > at.PrefixLen {
			payload = payload[at.PrefixLen:]
		}
		for i := 0; i < len(payload); i++ {
			flight.opScanner.Feed(payload[i])
		}

	case kindCallList:
		call := atproto.ParseCLCC([]byte(token))
		flight.calls = append(flight.calls, call)
		m.dispatcher.Dispatch(Event{Code: EventCallStateChanged, Call: call})

	case kindSendSMS:
		flight.smsSentRef = atproto.ParseCMGS([]byte(token))
		m.dispatcher.Dispatch(Event{Code: EventSMSSent, SMSRef: flight.smsSentRef})

	case kindListSMS:
		if strings.HasPrefix(token, "+CMGL:") {
			entry := atproto.ParseCMGL([]byte(token), flight.memory)
			flight.smsEntries = append(flight.smsEntries, entry)
		} else if n := len(flight.smsEntries); n > 0 {
			flight.smsEntries[n-1].Body = strings.TrimPrefix(flight.smsEntries[n-1].Body+"\n"+token, "\n")
		}

	case kindReadSMS:
		if len(flight.smsEntries) == 0 {
			flight.smsEntries = append(flight.smsEntries, atproto.SmsEntry{Memory: flight.memory, Position: flight.index})
		}
		if strings.HasPrefix(token, "+CMGR:") {
			atproto.ParseCMGR([]byte(token), &flight.smsEntries[0])
		} else {
			flight.smsEntries[0].Body = strings.TrimPrefix(flight.smsEntries[0].Body+"\n"+token, "\n")
		}

	case kindSMSMemoryOptions:
		flight.smsMemoryOptions = atproto.ParseCPMSOptions([]byte(token))

	case kindSMSMemoryCurrent:
		flight.smsMemoryPools = atproto.ParseCPMSCurrent([]byte(token))

	case kindSMSMemorySet:
		flight.smsMemoryPools = atproto.ParseCPMSSet([]byte(token))

	case kindPhonebookMemoryOptions:
		flight.pbMemoryOptions = atproto.ParseCPBSOptions([]byte(token))

	case kindPhonebookMemoryCurrent:
		flight.pbMemory = atproto.ParseCPBSCurrent([]byte(token))

	case kindPhonebookMemorySet:
		flight.pbMemory = atproto.ParseCPBSSet([]byte(token))

	case kindPhonebookRead, kindPhonebookFind:
		entry := atproto.ParseCPBR([]byte(token))
		flight.pbEntries = append(flight.pbEntries, entry)
	}
}

// collectFlight converts the in-flight descriptor's accumulated results
// into the typed payload a command-surface caller expects.
func (m *Modem) collectFlight(flight *inFlight) any {
	if flight == nil {
		return nil
	}
	switch flight.kind {
	case kindOperatorQuery:
		if len(flight.operators) > 0 {
			return flight.operators[0]
		}
		return atproto.Operator{}
	case kindOperatorScan:
		return flight.operators[:flight.opCount]
	case kindCallList:
		return flight.calls
	case kindSendSMS:
		return flight.smsSentRef
	case kindListSMS:
		return flight.smsEntries
	case kindReadSMS:
		if len(flight.smsEntries) > 0 {
			return flight.smsEntries[0]
		}
		return atproto.SmsEntry{}
	case kindPhonebookRead, kindPhonebookFind:
		return flight.pbEntries
	case kindSMSMemoryOptions:
		return flight.smsMemoryOptions
	case kindSMSMemoryCurrent, kindSMSMemorySet:
		return flight.smsMemoryPools
	case kindPhonebookMemoryOptions:
		return flight.pbMemoryOptions
	case kindPhonebookMemoryCurrent, kindPhonebookMemorySet:
		return flight.pbMemory
	default:
		return nil
	}
}

// applyFlight copies a successfully finished command's collected results
// into State. The only other writes to State are the +CREG:/+CPIN: status
// updates in dispatchDataLine.
func (m *Modem) applyFlight(flight *inFlight) {
	if flight == nil {
		return
	}
	switch flight.kind {
	case kindOperatorQuery:
		if len(flight.operators) > 0 {
			m.state.setOperator(flight.operators[0])
		}
	case kindCallList:
		m.state.setCalls(flight.calls)
	case kindSMSMemoryCurrent, kindSMSMemorySet:
		m.state.setSMSMemory(flight.smsMemoryPools)
	case kindPhonebookMemoryCurrent, kindPhonebookMemorySet:
		m.state.setPhonebookMemory(flight.pbMemory)
	}
}

// URC returns a read-only channel of raw unsolicited/ambiguous response
// lines, for callers that want the wire text rather than a typed Event.
func (m *Modem) URC() <-chan string {
	return m.urcChan
}

// Close shuts down the modem: stops the Loop and closes the transport.
func (m *Modem) Close() error {
	if m.closed {
		return ErrAlreadyClosed
	}
	m.closed = true

	if m.loopCancel != nil {
		m.loopCancel()
	}
	if m.transport != nil {
		return m.transport.Close()
	}
	return nil
}

// init runs the modem bring-up sequence: wake, disable echo, enable verbose
// errors, check the SIM, unlock it if a PIN was configured, then select SMS
// text mode. It talks to the transport directly (execDirect) since Loop is
// not running yet.
func (m *Modem) init(ctx context.Context) error {
	if err := m.expectOkDirect(ctx, at.CmdAt); err != nil {
		return fmt.Errorf("modem not responding: %w", err)
	}
	if err := m.expectOkDirect(ctx, at.CmdEchoOff); err != nil {
		return fmt.Errorf("could not disable echo: %w", err)
	}
	if err := m.expectOkDirect(ctx, at.CmdVerboseErrors); err != nil {
		return fmt.Errorf("could not enable verbose errors: %w", err)
	}

	simStatus, err := m.execDirect(ctx, at.CmdSimStatus)
	if err != nil {
		return fmt.Errorf("query SIM status: %w", err)
	}

	switch {
	case strings.Contains(simStatus, at.SimReady):
		// already unlocked
	case strings.Contains(simStatus, at.SimPin):
		if m.simPIN == "" {
			return ErrSIMPinRequired
		}
		if err := m.expectOkDirect(ctx, at.CmdPinSubmit(m.simPIN)); err != nil {
			return fmt.Errorf("enter SIM PIN: %w", err)
		}
		if err := m.waitForSIMReady(ctx, PollConfig{}); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported SIM state: %q", simStatus)
	}

	if err := m.expectOkDirect(ctx, at.CmdSetTextMode); err != nil {
		return fmt.Errorf("set SMS text mode: %w", err)
	}
	if err := m.expectOkDirect(ctx, at.CmdRegURC); err != nil {
		return fmt.Errorf("enable registration URCs: %w", err)
	}

	return nil
}

// execOpts carries the extra context command-surface callers thread through
// an exec call beyond the bare command string: which kind tags the
// in-flight descriptor, and (for list/read commands) which memory or index
// the response parser needs since the wire response doesn't repeat it.
type execOpts struct {
	kind   commandKind
	memory atproto.MemoryKind
	index  int
}

// exec submits an AT command to the running Loop and blocks for its
// response.
func (m *Modem) exec(ctx context.Context, cmd string, opts execOpts) (commandResponse, error) {
	if m.closed {
		return commandResponse{}, ErrAlreadyClosed
	}
	if m.transport == nil {
		return commandResponse{}, ErrNotInitialized
	}

	if _, ok := ctx.Deadline(); !ok && m.atTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.atTimeout)
		defer cancel()
	}

	req := &commandRequest{
		cmd:      cmd,
		kind:     opts.kind,
		memory:   opts.memory,
		index:    opts.index,
		respChan: make(chan commandResponse, 1),
		ctx:      ctx,
	}

	select {
	case m.commands <- req:
	case <-ctx.Done():
		return commandResponse{}, fmt.Errorf("command cancelled before sending: %w", ctx.Err())
	}

	select {
	case resp := <-req.respChan:
		return resp, resp.err
	case <-ctx.Done():
		return commandResponse{}, fmt.Errorf("command timeout: %w", ctx.Err())
	}
}

// execDirect runs one AT command directly on the transport, bypassing the
// Loop's channel mechanism entirely. Used only during init, before Loop is
// running.
func (m *Modem) execDirect(ctx context.Context, cmd string) (string, error) {
	if m.closed {
		return "", ErrAlreadyClosed
	}
	if m.transport == nil {
		return "", ErrNotInitialized
	}

	if _, ok := ctx.Deadline(); !ok && m.atTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.atTimeout)
		defer cancel()
	}

	wire := strings.TrimSpace(cmd) + "\r"
	if _, err := m.transport.Write([]byte(wire)); err != nil {
		return "", fmt.Errorf("write command %q: %w", cmd, err)
	}

	scanner := bufio.NewScanner(m.transport)
	scanner.Split(at.Splitter)

	var lines []string
	for {
		select {
		case <-ctx.Done():
			return strings.Join(lines, "\n"), ctx.Err()
		default:
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return strings.Join(lines, "\n"), fmt.Errorf("read error: %w", err)
			}
			return strings.Join(lines, "\n"), io.EOF
		}

		token := scanner.Text()
		if token == "" {
			continue
		}

		switch at.Classify(token) {
		case at.TypeFinal:
			lines = append(lines, token)
			response := strings.Join(lines, "\n")
			if token == at.OK {
				return response, nil
			}
			return response, &CommandError{Status: classifyFinal(token), Response: token}
		case at.TypeData:
			lines = append(lines, token)
		case at.TypeURC:
			continue
		case at.TypePrompt:
			lines = append(lines, token)
			return strings.Join(lines, "\n"), nil
		}
	}
}

// expectOkDirect runs cmd via execDirect and requires an OK final response.
func (m *Modem) expectOkDirect(ctx context.Context, cmd string) error {
	resp, err := m.execDirect(ctx, cmd)
	if err != nil {
		return err
	}
	if !strings.Contains(resp, at.OK) {
		return fmt.Errorf("unexpected response: %q", resp)
	}
	return nil
}

// waitForSIMReady polls +CPIN? until the SIM reports READY, used after
// submitting a PIN since authentication takes the SIM a moment.
func (m *Modem) waitForSIMReady(ctx context.Context, config PollConfig) error {
	pollInterval := config.Interval
	timeout := config.Timeout
	maxRetries := config.MaxRetries

	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxRetries <= 0 {
		maxRetries = int(timeout / pollInterval)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	retries := 0

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("SIM not ready: %w", ctx.Err())
		case <-ticker.C:
			retries++
			if retries > maxRetries {
				return fmt.Errorf("SIM not ready after %d retries", maxRetries)
			}
			resp, err := m.execDirect(ctx, at.CmdSimStatus)
			if err != nil {
				if cmdErr, ok := err.(*CommandError); ok && cmdErr.Status != StatusOK {
					continue
				}
				return fmt.Errorf("SIM status check failed: %w", err)
			}
			if strings.Contains(resp, at.SimReady) {
				return nil
			}
		}
	}
}
