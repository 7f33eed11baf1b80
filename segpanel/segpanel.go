// Package segpanel holds the wire protocol of the segment/icon display
// controller: configuration commands, per-segment frames and the fixed
// animation phase tables.
package segpanel

import (
	"fmt"
	"strings"
)

// DefaultAddress is the 7-bit I2C address of the display controller.
const DefaultAddress = 0x08

// configuration commands, both bytes of the packet carry the code
const (
	CmdDisplayOn    = 0x11 // display on/off
	CmdDisplayRange = 0x24 // active display range
	CmdBrightness   = 0x37 // brightness
)

// segment group addresses, byte 0 of every frame
const (
	SegTop        = 0x50 // top edge + upper droplet
	SegRight      = 0x51 // right edge + upper degree C
	SegLowerRight = 0x52 // lower right edge
	SegBottom     = 0x53 // bottom edge + lower degree C
	SegLowerLeft  = 0x54 // lower left edge + snowflake
	SegUpperLeft  = 0x55 // upper left edge + lock
	SegMiddle     = 0x56 // middle bar + wifi
	SegMinus      = 0x57 // minus sign
)

const (
	// FrameSize is the length of one segment frame on the wire.
	FrameSize = 4
	// CommandSize is the length of one configuration packet.
	CommandSize = 2
	// NumFrames is the number of frames in a frame set.
	NumFrames = 8
	// BufferSize is the length of a full transmission buffer.
	BufferSize = NumFrames * FrameSize
)

// Command is a configuration packet.
type Command [CommandSize]byte

// NewCommand returns the packet for the given command code.
func NewCommand(code byte) Command {
	return Command{code, code}
}

// Setup lists the configuration packets in the order the controller
// expects them after power up.
var Setup = [...]Command{
	NewCommand(CmdDisplayOn),
	NewCommand(CmdDisplayRange),
	NewCommand(CmdBrightness),
}

func (c Command) String() string {
	return fmt.Sprintf("%02x %02x", c[0], c[1])
}

// Frame is one addressed segment command: address, two bitmap bytes and
// a check byte.
type Frame [FrameSize]byte

// Parity returns the check byte for the first three bytes of a frame.
// Every bit column of a valid frame holds an even number of ones.
func Parity(addr, hi, lo byte) byte {
	return addr ^ hi ^ lo
}

// NewFrame builds a frame and fills in its check byte.
func NewFrame(addr, hi, lo byte) Frame {
	return Frame{addr, hi, lo, Parity(addr, hi, lo)}
}

// Address returns the segment group the frame is meant for.
func (f Frame) Address() byte {
	return f[0]
}

// Valid reports whether the check byte agrees with the rest of the frame.
func (f Frame) Valid() bool {
	return f[3] == Parity(f[0], f[1], f[2])
}

func (f Frame) String() string {
	return fmt.Sprintf("%02x %02x %02x %02x", f[0], f[1], f[2], f[3])
}

// FrameSet is the ordered list of frames sent for one phase.
type FrameSet [NumFrames]Frame

// Buffer is a frame set laid out the way it is handed to the bus.
type Buffer [BufferSize]byte

// Frame returns the i'th 4 byte frame in the buffer.
func (b *Buffer) Frame(i int) []byte {
	return b[i*FrameSize : (i+1)*FrameSize]
}

// Dump renders the buffer as one hex row per frame.
func (b *Buffer) Dump() string {
	var sb strings.Builder
	for i := 0; i < NumFrames; i++ {
		f := b.Frame(i)
		fmt.Fprintf(&sb, "\n  [%d] % x", i, f)
	}
	return sb.String()
}

// BuildFrameSet copies the frames of the phase into a transmission buffer,
// frame i at offset 4*i.
func BuildFrameSet(p Phase) Buffer {
	var buf Buffer
	frames := p.Frames()
	for i, f := range frames {
		copy(buf[i*FrameSize:], f[:])
	}
	return buf
}
