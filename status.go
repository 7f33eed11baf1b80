package main

import (
	"sync"
	"time"

	"dscheirer.com/segloop/segpanel"
)

const statusHistory = 16

const journalWindow = time.Hour

// sequencerStatus is written by the sequencer and read by the status
// service.
type sequencerStatus struct {
	mu          sync.Mutex
	state       seqState
	phase       segpanel.Phase
	configured  int
	cycles      int
	transfers   int
	failures    int
	lastError   string
	transitions []seqState
}

type statusSnapshot struct {
	State      string   `json:"state"`
	Phase      string   `json:"phase"`
	Configured int      `json:"configured"`
	Cycles     int      `json:"cycles"`
	Transfers  int      `json:"transfers"`
	Failures   int      `json:"failures"`
	LastError  string   `json:"lastError,omitempty"`
	History    []string `json:"history"`

	// failed transfers in the journal over the last journalWindow,
	// absent when the journal is off
	JournalFailures *int64 `json:"journalFailures,omitempty"`
}

func newSequencerStatus() *sequencerStatus {
	return &sequencerStatus{state: stateUninitialized}
}

func (st *sequencerStatus) setState(s seqState) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state = s
	if s == stateConfigured {
		st.configured++
	}
	st.transitions = append(st.transitions, s)
	if len(st.transitions) > statusHistory {
		st.transitions = st.transitions[len(st.transitions)-statusHistory:]
	}
}

func (st *sequencerStatus) setPhase(p segpanel.Phase) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.phase = p
}

func (st *sequencerStatus) recordTransfer(err error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.transfers++
	if err != nil {
		st.failures++
		st.lastError = err.Error()
	}
}

func (st *sequencerStatus) cycleDone() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.cycles++
}

func (st *sequencerStatus) snapshot() statusSnapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	hist := make([]string, len(st.transitions))
	for i, s := range st.transitions {
		hist[i] = s.String()
	}
	return statusSnapshot{
		State:      st.state.String(),
		Phase:      st.phase.String(),
		Configured: st.configured,
		Cycles:     st.cycles,
		Transfers:  st.transfers,
		Failures:   st.failures,
		LastError:  st.lastError,
		History:    hist,
	}
}
