package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"dscheirer.com/segloop/journal"
	"dscheirer.com/segloop/segpanel"
)

type seqState int

const (
	stateUninitialized seqState = iota
	stateConfigured
	statePhaseA
	statePhaseB
	statePhaseC
)

var stateNames = [...]string{
	stateUninitialized: "UNINITIALIZED",
	stateConfigured:    "CONFIGURED",
	statePhaseA:        "PHASE_A",
	statePhaseB:        "PHASE_B",
	statePhaseC:        "PHASE_C",
}

func (s seqState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("seqState(%d)", int(s))
	}
	return stateNames[s]
}

func phaseState(p segpanel.Phase) seqState {
	return statePhaseA + seqState(p)
}

// what to do when a transfer fails
type failurePolicy int

const (
	policyIgnore failurePolicy = iota
	policyLog
	policyHalt
)

func parseFailurePolicy(s string) (failurePolicy, error) {
	switch s {
	case "", "ignore":
		return policyIgnore, nil
	case "log":
		return policyLog, nil
	case "halt":
		return policyHalt, nil
	default:
		return policyIgnore, fmt.Errorf("Bad failure policy: %q", s)
	}
}

// indicator states
const (
	indUnknown = iota
	indOK
	indFailed
)

// journal label for configuration writes
const setupLabel = "SETUP"

var (
	errQuit              = errors.New("sequencer: quit")
	errHalted            = errors.New("sequencer: halted on transfer failure")
	errAlreadyConfigured = errors.New("sequencer: already configured")
)

type sequencer struct {
	rt     runtimeConfig
	logger flogger

	addr        uint8
	policy      failurePolicy
	configDelay time.Duration
	frameDelay  time.Duration
	phaseDelay  time.Duration
	reconfigure bool
	dump        bool
	successPin  int
	errorPin    int

	state         seqState
	phaseFailures int
	indicator     int
	halted        bool
}

func newSequencer(rt runtimeConfig) *sequencer {
	settings := rt.settings
	logger := &ThreadLogger{name: "Sequencer"}

	policy, err := parseFailurePolicy(settings.GetString(sFailurePolicy))
	if err != nil {
		logger.Printf("%v, using ignore", err)
	}

	return &sequencer{
		rt:          rt,
		logger:      logger,
		addr:        settings.GetByte(sI2CDev),
		policy:      policy,
		configDelay: settings.GetDuration(sConfigDelay),
		frameDelay:  settings.GetDuration(sFrameDelay),
		phaseDelay:  settings.GetDuration(sPhaseDelay),
		reconfigure: settings.GetBool(sReconfigure),
		dump:        settings.GetBool(sDebug),
		successPin:  settings.GetInt(sLedSuccessPin),
		errorPin:    settings.GetInt(sLedErrorPin),
		state:       stateUninitialized,
	}
}

func (s *sequencer) setState(st seqState) {
	s.state = st
	s.rt.status.setState(st)
}

// delay sleeps on the runtime clock; false means quit arrived first
func (s *sequencer) delay(d time.Duration) bool {
	if d <= 0 {
		return !quitting(s.rt.comms)
	}
	select {
	case <-s.rt.comms.quit:
		return false
	case <-s.rt.clock.After(d):
		return true
	}
}

// send performs one transfer and applies the failure policy. The
// transfer result is always returned to the caller.
func (s *sequencer) send(label string, buf []byte) error {
	err := s.rt.bus.Transfer(s.addr, buf)
	s.rt.status.recordTransfer(err)
	s.record(label, buf, err)

	if err != nil {
		s.phaseFailures++
		switch s.policy {
		case policyLog:
			s.logger.Printf("transfer [% x] failed: %v", buf, err)
		case policyHalt:
			s.logger.Printf("transfer [% x] failed, halting: %v", buf, err)
			s.halted = true
		}
	}
	return err
}

// record queues the transfer for the journal, dropping it when the
// journal writer is behind
func (s *sequencer) record(label string, buf []byte, err error) {
	if s.rt.journal == nil {
		return
	}
	rec := journal.Record{
		At:      s.rt.clock.Now(),
		Phase:   label,
		Address: s.addr,
		Payload: fmt.Sprintf("% x", buf),
	}
	if err != nil {
		rec.Error = err.Error()
	}
	select {
	case s.rt.comms.journal <- rec:
	default:
	}
}

// sendSetup writes the configuration packets in order, settling after each.
func (s *sequencer) sendSetup() error {
	for _, cmd := range segpanel.Setup {
		s.send(setupLabel, cmd[:])
		if s.halted {
			return errHalted
		}
		if !s.delay(s.configDelay) {
			return errQuit
		}
	}
	return nil
}

// configure brings the controller up. It only runs once per sequencer.
func (s *sequencer) configure() error {
	if s.state != stateUninitialized {
		return errAlreadyConfigured
	}
	s.logger.Println("configuring display")
	if err := s.sendSetup(); err != nil {
		return err
	}
	s.setState(stateConfigured)
	return nil
}

// runPhase sends the frame set of p one frame per transfer, then settles.
func (s *sequencer) runPhase(p segpanel.Phase) error {
	s.phaseFailures = 0
	s.setState(phaseState(p))
	s.rt.status.setPhase(p)

	buf := segpanel.BuildFrameSet(p)
	if s.dump {
		s.logger.Printf("phase %s:%s", p, buf.Dump())
	}

	for i := 0; i < segpanel.NumFrames; i++ {
		s.send(s.state.String(), buf.Frame(i))
		if s.halted {
			s.signalHalt()
			return errHalted
		}
		if !s.delay(s.frameDelay) {
			return errQuit
		}
	}

	s.updateIndicator()

	if !s.delay(s.phaseDelay) {
		return errQuit
	}
	return nil
}

func (s *sequencer) sendLED(e ledEffect) {
	select {
	case s.rt.comms.leds <- e:
	default:
		s.logger.Printf("led channel full, dropped %v", e)
	}
}

func (s *sequencer) updateIndicator() {
	ind := indOK
	if s.phaseFailures > 0 {
		ind = indFailed
	}
	if ind == s.indicator {
		return
	}
	s.indicator = ind
	if ind == indOK {
		s.sendLED(ledOn(s.successPin))
		s.sendLED(ledOff(s.errorPin))
	} else {
		s.sendLED(ledOff(s.successPin))
		s.sendLED(ledOn(s.errorPin))
	}
}

func (s *sequencer) signalHalt() {
	s.indicator = indFailed
	s.sendLED(ledOff(s.successPin))
	s.sendLED(ledMessage(s.errorPin, modeBlink50, 0))
}

// run configures the display and cycles the phases until quit, a halt,
// or the cycle limit (0 is no limit).
func (s *sequencer) run(cycles int) error {
	if err := s.configure(); err != nil {
		if err == errHalted {
			s.signalHalt()
		}
		return err
	}

	for n := 0; cycles == 0 || n < cycles; n++ {
		if n > 0 && s.reconfigure {
			if err := s.sendSetup(); err != nil {
				if err == errHalted {
					s.signalHalt()
				}
				return err
			}
		}
		for _, p := range segpanel.Phases {
			if err := s.runPhase(p); err != nil {
				return err
			}
		}
		s.rt.status.cycleDone()
	}
	return nil
}

func runSequencer(rt runtimeConfig) {
	s := newSequencer(rt)
	defer func() {
		s.logger.Println("Exiting runSequencer")
	}()

	err := s.run(rt.settings.GetInt(sCycles))
	switch err {
	case nil, errQuit:
	default:
		s.logger.Printf("stopped: %v", err)
	}
}
