package segpanel

import (
	"strings"
	"testing"

	"gotest.tools/assert"
)

var goldenBuffers = map[Phase]Buffer{
	PhaseA: {
		0x50, 0xC0, 0xC0, 0x50,
		0x51, 0xC0, 0xC0, 0x51,
		0x52, 0xC0, 0xC0, 0x52,
		0x53, 0xC0, 0xC0, 0x53,
		0x54, 0xC0, 0xC0, 0x54,
		0x55, 0xC0, 0xC0, 0x55,
		0x56, 0xC0, 0xC0, 0x56,
		0x57, 0xC0, 0xC0, 0x57,
	},
	PhaseB: {
		0x50, 0x30, 0xF0, 0x90,
		0x51, 0x30, 0xF0, 0x91,
		0x52, 0x30, 0xF0, 0x92,
		0x53, 0x30, 0xF0, 0x93,
		0x54, 0x30, 0xF0, 0x94,
		0x55, 0x30, 0xF0, 0x95,
		0x56, 0x30, 0xF0, 0x96,
		0x57, 0x30, 0xF0, 0x97,
	},
	PhaseC: {
		0x50, 0x0F, 0x0C, 0x53,
		0x51, 0x0F, 0x0C, 0x52,
		0x52, 0x0F, 0x0C, 0x51,
		0x53, 0x0F, 0x0C, 0x50,
		0x54, 0x0F, 0x0C, 0x57,
		0x55, 0x0F, 0x0C, 0x56,
		0x56, 0x0F, 0x0C, 0x55,
		0x57, 0x0F, 0x0C, 0x54,
	},
}

func TestBuildFrameSetGolden(t *testing.T) {
	for _, p := range Phases {
		buf := BuildFrameSet(p)
		assert.Equal(t, buf, goldenBuffers[p], "phase %s", p)
		// building twice gives the same bytes
		assert.Equal(t, BuildFrameSet(p), buf)
	}
}

func TestFrameParity(t *testing.T) {
	for _, p := range Phases {
		for i, f := range p.Frames() {
			assert.Assert(t, f.Valid(), "phase %s frame %d: %s", p, i, f)
			// even number of ones in every bit column
			assert.Equal(t, f[0]^f[1]^f[2]^f[3], byte(0))
		}
	}

	f := NewFrame(SegMiddle, 0x12, 0x34)
	assert.Assert(t, f.Valid())
	f[2] ^= 0x01
	assert.Assert(t, !f.Valid())
}

func TestFrameAddressOrder(t *testing.T) {
	want := []byte{0x50, 0x51, 0x52, 0x53, 0x54, 0x55, 0x56, 0x57}
	for _, p := range Phases {
		buf := BuildFrameSet(p)
		for i := 0; i < NumFrames; i++ {
			assert.Equal(t, buf[4*i], want[i], "phase %s frame %d", p, i)
			assert.Equal(t, p.Frames()[i].Address(), want[i])
		}
	}
}

func TestBufferFrame(t *testing.T) {
	buf := BuildFrameSet(PhaseB)
	f := buf.Frame(3)
	assert.Equal(t, len(f), FrameSize)
	assert.DeepEqual(t, f, []byte{0x53, 0x30, 0xF0, 0x93})
}

func TestPhaseCycle(t *testing.T) {
	p := PhaseA
	seen := []Phase{}
	for i := 0; i < 7; i++ {
		seen = append(seen, p)
		p = p.Next()
	}
	assert.DeepEqual(t, seen, []Phase{PhaseA, PhaseB, PhaseC, PhaseA, PhaseB, PhaseC, PhaseA})
	assert.Equal(t, NumPhases, 3)
}

func TestParsePhase(t *testing.T) {
	p, err := ParsePhase("b")
	assert.NilError(t, err)
	assert.Equal(t, p, PhaseB)

	p, err = ParsePhase("C")
	assert.NilError(t, err)
	assert.Equal(t, p, PhaseC)

	_, err = ParsePhase("D")
	assert.ErrorContains(t, err, "Bad phase")
	assert.Equal(t, Phase(7).String(), "Phase(7)")
}

func TestSetupCommands(t *testing.T) {
	assert.Equal(t, len(Setup), 3)
	assert.Equal(t, Setup[0], Command{0x11, 0x11})
	assert.Equal(t, Setup[1], Command{0x24, 0x24})
	assert.Equal(t, Setup[2], Command{0x37, 0x37})
	assert.Equal(t, Setup[2].String(), "37 37")
}

func TestDump(t *testing.T) {
	buf := BuildFrameSet(PhaseA)
	assert.Assert(t, strings.HasPrefix(buf.Dump(), "\n  [0] 50 c0 c0 50\n  [1] 51 c0 c0 51"))
}
