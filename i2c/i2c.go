// Package i2c implements the blocking master write transfer used to talk
// to the display controller.
package i2c

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	expi2c "golang.org/x/exp/io/i2c"
	"golang.org/x/exp/io/i2c/driver"
)

// MaxTransfer is the largest buffer a single transfer accepts.
const MaxTransfer = 32

const (
	DefaultTimeout  = 100 * time.Millisecond
	DefaultMaxPolls = 100000
)

// transfer failures
var (
	ErrIssueFailed = errors.New("i2c: transfer not started")
	ErrTransfer    = errors.New("i2c: transfer error")
	ErrShortWrite  = errors.New("i2c: short write")
	ErrTimeout     = errors.New("i2c: transfer timed out")
	ErrBadLength   = errors.New("i2c: bad buffer length")
)

// issueError keeps the controller's reason for refusing a transfer in
// the chain while still matching ErrIssueFailed.
type issueError struct {
	cause error
}

func (e *issueError) Error() string {
	return ErrIssueFailed.Error() + ": " + e.cause.Error()
}

func (e *issueError) Is(target error) bool {
	return target == ErrIssueFailed
}

func (e *issueError) Unwrap() error {
	return e.cause
}

// Options tune how a Master waits on the controller.
type Options struct {
	// Timeout bounds the wait for the write complete flag.
	Timeout time.Duration
	// PollInterval is slept between status polls, zero busy polls.
	PollInterval time.Duration
	// MaxPolls bounds the number of status polls per transfer.
	MaxPolls int
	Clock    clockwork.Clock
}

// Master owns a controller and performs complete write transfers on it.
// Transfers are serialised; a Master has exactly one owner of the bus.
type Master struct {
	mu   sync.Mutex
	ctrl Controller
	opts Options
}

// New wraps a controller. Zero options get the package defaults.
func New(ctrl Controller, opts Options) *Master {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxPolls <= 0 {
		opts.MaxPolls = DefaultMaxPolls
	}
	if opts.PollInterval < 0 {
		opts.PollInterval = 0
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Master{ctrl: ctrl, opts: opts}
}

// Open opens /dev/i2c-<bus> for the slave at addr, or a logging
// controller when simulated. The device is opened here so a missing bus
// is reported before the first transfer.
func Open(bus int, addr uint8, simulated bool, opts Options) (*Master, error) {
	if simulated {
		return New(newSimController(bus), opts), nil
	}
	return OpenDevice(&expi2c.Devfs{Dev: fmt.Sprintf("/dev/i2c-%d", bus)}, addr, opts)
}

// OpenDevice opens the slave at addr through o and wraps it in a Master.
// Other addresses are opened on first use.
func OpenDevice(o driver.Opener, addr uint8, opts Options) (*Master, error) {
	ctrl := newOpenerController(o)
	if _, err := ctrl.device(addr); err != nil {
		return nil, errors.Wrapf(err, "i2c: open 0x%02x", addr)
	}
	return New(ctrl, opts), nil
}

// Close releases the controller.
func (m *Master) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ctrl.Close()
}

// Transfer writes buf to the slave at addr as one start-address-data-stop
// transaction and blocks until the controller reports completion.
// It never retries.
func (m *Master) Transfer(addr uint8, buf []byte) error {
	if len(buf) == 0 || len(buf) > MaxTransfer {
		return errors.Wrapf(ErrBadLength, "addr 0x%02x: %d bytes", addr, len(buf))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.ctrl.ClearStatus()
	if err := m.ctrl.WriteBuf(addr, buf); err != nil {
		return errors.Wrapf(&issueError{cause: err}, "addr 0x%02x", addr)
	}

	if err := m.waitComplete(); err != nil {
		return errors.Wrapf(err, "addr 0x%02x", addr)
	}

	if m.ctrl.Status()&MStatErrXfer != 0 {
		return errors.Wrapf(ErrTransfer, "addr 0x%02x", addr)
	}
	if n := m.ctrl.WriteBufSize(); n != len(buf) {
		return errors.Wrapf(ErrShortWrite, "addr 0x%02x: %d of %d bytes", addr, n, len(buf))
	}
	return nil
}

// waitComplete polls for the write complete flag, bounded by both the
// poll count and the timeout.
func (m *Master) waitComplete() error {
	start := m.opts.Clock.Now()
	for polls := 1; ; polls++ {
		if m.ctrl.Status()&MStatWrComplete != 0 {
			return nil
		}
		if polls >= m.opts.MaxPolls {
			return ErrTimeout
		}
		if m.opts.Clock.Now().Sub(start) >= m.opts.Timeout {
			return ErrTimeout
		}
		if m.opts.PollInterval > 0 {
			m.opts.Clock.Sleep(m.opts.PollInterval)
		}
	}
}
