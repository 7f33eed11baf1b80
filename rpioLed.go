package main

import (
	"log"

	"github.com/stianeikeland/go-rpio"
)

// rpioLed drives the indicator LEDs straight off the Pi GPIO header
type rpioLed struct {
}

func (rpi *rpioLed) init() {
	err := rpio.Open()
	if err != nil {
		log.Fatal(err)
	}
}

func (rpi *rpioLed) set(pinNum int, on bool) {
	pin := rpio.Pin(pinNum)
	pin.Output()
	if on {
		pin.High()
	} else {
		pin.Low()
	}
}

func (rpi *rpioLed) on(pin int) {
	rpi.set(pin, true)
}

func (rpi *rpioLed) off(pin int) {
	rpi.set(pin, false)
}

func newLed(settings configSettings) led {
	switch settings.GetString(sLeds) {
	case "rpio":
		return &rpioLed{}
	default:
		return &logLed{}
	}
}
