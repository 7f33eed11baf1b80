// segprobe writes frame sets to the display controller by hand, for
// bench checks of the wiring. With BUTTON set it waits on that pin and
// sends the next phase on every press.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/stianeikeland/go-rpio"

	"dscheirer.com/segloop/i2c"
	"dscheirer.com/segloop/segpanel"
)

type prober struct {
	bus  *i2c.Master
	addr uint8
}

func (p *prober) configure() {
	for _, cmd := range segpanel.Setup {
		if err := p.bus.Transfer(p.addr, cmd[:]); err != nil {
			log.Printf("setup %v: %v", cmd, err)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func (p *prober) send(phase segpanel.Phase) {
	buf := segpanel.BuildFrameSet(phase)
	log.Printf("phase %s:%s", phase, buf.Dump())
	for i := 0; i < segpanel.NumFrames; i++ {
		if err := p.bus.Transfer(p.addr, buf.Frame(i)); err != nil {
			log.Printf("frame %d: %v", i, err)
		}
		time.Sleep(time.Millisecond)
	}
}

func main() {
	busNum := flag.Int("bus", 1, "i2c bus number")
	addrS := flag.String("addr", fmt.Sprintf("0x%02x", segpanel.DefaultAddress), "controller address")
	phaseS := flag.String("phase", "A", "first phase to send")
	simulated := flag.Bool("simulated", false, "log writes instead of using /dev/i2c")
	flag.Parse()

	addr, err := strconv.ParseUint(*addrS, 0, 7)
	if err != nil {
		log.Fatalf("%s is not an address", *addrS)
	}
	phase, err := segpanel.ParsePhase(*phaseS)
	if err != nil {
		log.Fatal(err.Error())
	}

	bus, err := i2c.Open(*busNum, uint8(addr), *simulated, i2c.Options{})
	if err != nil {
		log.Fatal(err.Error())
	}
	defer bus.Close()

	p := &prober{bus: bus, addr: uint8(addr)}
	p.configure()
	p.send(phase)

	// BUTTON is the pin number, PULLUP flips the press level
	pinS, ok := os.LookupEnv("BUTTON")
	if !ok {
		return
	}
	pin, err := strconv.ParseInt(pinS, 0, 64)
	if err != nil {
		log.Fatalf("%s is not a number", pinS)
	}
	_, pullUp := os.LookupEnv("PULLUP")

	if err := rpio.Open(); err != nil {
		log.Fatal(err.Error())
	}
	defer rpio.Close()

	rpioPin := rpio.Pin(pin)
	rpioPin.Input()
	pressState := rpio.High
	if pullUp {
		rpioPin.PullUp() // GND => button press
		pressState = rpio.Low
	} else {
		rpioPin.PullDown() // +V -> button press
	}

	log.Printf("Watching %v for presses", pin)
	for {
		if rpioPin.Read() == pressState {
			phase = phase.Next()
			p.send(phase)
			// debounce
			time.Sleep(500 * time.Millisecond)
		}
		time.Sleep(30 * time.Millisecond)
	}
}
