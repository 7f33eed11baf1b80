package segpanel

import (
	"fmt"
	"strings"
)

// Phase is one step of the animation.
type Phase int

const (
	PhaseA Phase = iota
	PhaseB
	PhaseC
	numPhases
)

// NumPhases is the length of the animation cycle.
const NumPhases = int(numPhases)

// Phases lists the animation phases in schedule order.
var Phases = [...]Phase{PhaseA, PhaseB, PhaseC}

var phaseNames = [...]string{
	PhaseA: "A",
	PhaseB: "B",
	PhaseC: "C",
}

func (p Phase) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Valid reports whether p is one of the known phases.
func (p Phase) Valid() bool {
	return p >= 0 && p < numPhases
}

// Next returns the phase that follows p, wrapping from PhaseC to PhaseA.
func (p Phase) Next() Phase {
	return (p + 1) % numPhases
}

// ParsePhase maps a phase name ("A", "b", ...) to a Phase.
func ParsePhase(s string) (Phase, error) {
	for p, name := range phaseNames {
		if strings.EqualFold(s, name) {
			return Phase(p), nil
		}
	}
	return 0, fmt.Errorf("Bad phase: %q", s)
}

// Frames returns the fixed frame set for the phase. An unknown phase
// yields the PhaseA frames.
func (p Phase) Frames() FrameSet {
	if !p.Valid() {
		p = PhaseA
	}
	return phaseFrames[p]
}

// The bitmap meaning below comes from bench testing against the panel;
// the check bytes are the literal values the panel was validated with.
var phaseFrames = [numPhases]FrameSet{
	// upper LEDs of every group lit
	PhaseA: {
		{SegTop, 0xC0, 0xC0, 0x50},
		{SegRight, 0xC0, 0xC0, 0x51},
		{SegLowerRight, 0xC0, 0xC0, 0x52},
		{SegBottom, 0xC0, 0xC0, 0x53},
		{SegLowerLeft, 0xC0, 0xC0, 0x54},
		{SegUpperLeft, 0xC0, 0xC0, 0x55},
		{SegMiddle, 0xC0, 0xC0, 0x56},
		{SegMinus, 0xC0, 0xC0, 0x57},
	},
	// lower LEDs of every group lit
	PhaseB: {
		{SegTop, 0x30, 0xF0, 0x90},
		{SegRight, 0x30, 0xF0, 0x91},
		{SegLowerRight, 0x30, 0xF0, 0x92},
		{SegBottom, 0x30, 0xF0, 0x93},
		{SegLowerLeft, 0x30, 0xF0, 0x94},
		{SegUpperLeft, 0x30, 0xF0, 0x95},
		{SegMiddle, 0x30, 0xF0, 0x96},
		{SegMinus, 0x30, 0xF0, 0x97},
	},
	// segment and icon pattern
	PhaseC: {
		{SegTop, 0x0F, 0x0C, 0x53},
		{SegRight, 0x0F, 0x0C, 0x52},
		{SegLowerRight, 0x0F, 0x0C, 0x51},
		{SegBottom, 0x0F, 0x0C, 0x50},
		{SegLowerLeft, 0x0F, 0x0C, 0x57},
		{SegUpperLeft, 0x0F, 0x0C, 0x56},
		{SegMiddle, 0x0F, 0x0C, 0x55},
		{SegMinus, 0x0F, 0x0C, 0x54},
	},
}
