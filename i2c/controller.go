package i2c

import (
	"log"

	expi2c "golang.org/x/exp/io/i2c"
	"golang.org/x/exp/io/i2c/driver"
)

// master status flags
const (
	MStatWrComplete uint32 = 1 << 1
	MStatErrXfer    uint32 = 1 << 9
)

// Controller is the I2C master peripheral. WriteBuf starts a complete
// write transfer; completion and errors are reported through Status.
type Controller interface {
	ClearStatus()
	WriteBuf(addr uint8, buf []byte) error
	Status() uint32
	// WriteBufSize is the number of bytes the last transfer pushed out.
	WriteBufSize() int
	Close() error
}

// devController drives a Linux i2c-dev node. Writes there are
// synchronous, so the status is final when WriteBuf returns.
type devController struct {
	opener  driver.Opener
	devs    map[uint8]*expi2c.Device
	status  uint32
	written int
}

func newOpenerController(o driver.Opener) *devController {
	return &devController{
		opener: o,
		devs:   make(map[uint8]*expi2c.Device),
	}
}

func (d *devController) device(addr uint8) (*expi2c.Device, error) {
	if dev, ok := d.devs[addr]; ok {
		return dev, nil
	}
	dev, err := expi2c.Open(d.opener, int(addr))
	if err != nil {
		return nil, err
	}
	d.devs[addr] = dev
	return dev, nil
}

func (d *devController) ClearStatus() {
	d.status = 0
	d.written = 0
}

func (d *devController) WriteBuf(addr uint8, buf []byte) error {
	dev, err := d.device(addr)
	if err != nil {
		return err
	}
	d.status |= MStatWrComplete
	if err := dev.Write(buf); err != nil {
		log.Printf("i2c write to 0x%02x failed: %v", addr, err)
		d.status |= MStatErrXfer
		return nil
	}
	d.written = len(buf)
	return nil
}

func (d *devController) Status() uint32 {
	return d.status
}

func (d *devController) WriteBufSize() int {
	return d.written
}

func (d *devController) Close() error {
	var first error
	for addr, dev := range d.devs {
		if err := dev.Close(); err != nil && first == nil {
			first = err
		}
		delete(d.devs, addr)
	}
	return first
}

// simController acknowledges everything and logs what would have gone
// out on the wire.
type simController struct {
	bus     int
	status  uint32
	written int
}

func newSimController(bus int) *simController {
	log.Printf("i2c: simulated bus %d", bus)
	return &simController{bus: bus}
}

func (s *simController) ClearStatus() {
	s.status = 0
	s.written = 0
}

func (s *simController) WriteBuf(addr uint8, buf []byte) error {
	log.Printf("Write @ 0x%02x: % x", addr, buf)
	s.written = len(buf)
	s.status |= MStatWrComplete
	return nil
}

func (s *simController) Status() uint32 {
	return s.status
}

func (s *simController) WriteBufSize() int {
	return s.written
}

func (s *simController) Close() error {
	log.Printf("i2c: close simulated bus %d", s.bus)
	return nil
}
