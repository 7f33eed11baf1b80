package main

import (
	"fmt"
	"sync"
)

// logLed keeps the pin states in memory, for simulated runs and tests
type logLed struct {
	mu         sync.Mutex
	leds       []bool
	audit      []string
	disableLog bool
	logger     flogger
}

func (ll *logLed) init() {
	ll.mu.Lock()
	defer ll.mu.Unlock()
	ll.leds = make([]bool, 32)
	ll.audit = make([]string, 0)
	ll.logger = &ThreadLogger{name: "LEDs"}
}

func (ll *logLed) set(pinNum int, on bool) {
	ll.mu.Lock()
	defer ll.mu.Unlock()
	if pinNum < 0 || pinNum >= len(ll.leds) {
		ll.logger.Printf("Bad LED pin %v", pinNum)
		return
	}
	ll.leds[pinNum] = on
	if !ll.disableLog {
		ll.logger.Printf("Set LED %v to %v", pinNum, on)
	}
	ll.audit = append(ll.audit, fmt.Sprintf("Set LED %v to %v", pinNum, on))
}

func (ll *logLed) get(pinNum int) bool {
	ll.mu.Lock()
	defer ll.mu.Unlock()
	return ll.leds[pinNum]
}

func (ll *logLed) on(pinNum int) {
	ll.set(pinNum, true)
}

func (ll *logLed) off(pinNum int) {
	ll.set(pinNum, false)
}
