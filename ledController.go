package main

import (
	"fmt"
	"time"
)

const (
	modeOff = iota
	modeOn
	modeBlink10 // 10% off/sec
	modeBlink25 // 25% off/sec
	modeBlink50 // 50% cycle/sec
	modeBlink75 // 75% off/sec
	modeBlink90 // 90% off/sec
	modeUnset   // undetermined state
)

// 1/100s is the controller resolution
const dLEDSleep = 10 * time.Millisecond

type ledEffect struct {
	pin        int
	mode       int
	duration   time.Duration
	force      bool      // ignore current state, just do it
	curMode    int       // rt setting, on or off
	lastUpdate time.Time // rt setting, last time we changed the state
	startTime  time.Time // rt setting, when we initiated
}

func (e ledEffect) String() string {
	return fmt.Sprintf("pin %d mode %d for %v", e.pin, e.mode, e.duration)
}

func ledMessage(pin int, mode int, duration time.Duration) ledEffect {
	return ledEffect{pin: pin, mode: mode, duration: duration, startTime: time.Time{}, force: false}
}

func ledMessageForce(pin int, mode int, duration time.Duration) ledEffect {
	return ledEffect{pin: pin, mode: mode, duration: duration, startTime: time.Time{}, force: true}
}

func ledOn(pin int) ledEffect {
	return ledMessage(pin, modeOn, 0)
}

func ledOff(pin int) ledEffect {
	return ledMessageForce(pin, modeOff, 0)
}

func diffLEDEffect(effect1 ledEffect, effect2 ledEffect) bool {
	return effect1.mode != effect2.mode || (effect1.duration != effect2.duration && effect1.duration > 0 && effect2.duration > 0) ||
		effect1.pin != effect2.pin
}

func setLEDEffect(effect ledEffect) ledEffect {
	// clear the rt info
	effect.curMode = modeUnset
	effect.lastUpdate = time.Time{}
	effect.force = false // this is not part of the rt, just an indicator in the message
	return effect
}

// upTime returns how long per second the LED is lit in a mode
func upTime(mode int) (time.Duration, bool) {
	switch mode {
	case modeBlink10:
		return 900 * time.Millisecond, true
	case modeBlink25:
		return 750 * time.Millisecond, true
	case modeBlink50:
		return 500 * time.Millisecond, true
	case modeBlink75:
		return 250 * time.Millisecond, true
	case modeBlink90:
		return 100 * time.Millisecond, true
	case modeOn:
		return time.Second, true
	}
	return 0, false
}

func runLEDController(rt runtimeConfig) {
	logger := &ThreadLogger{name: "LEDs"}
	defer func() {
		logger.Println("Exiting runLEDController")
	}()

	comms := rt.comms
	leds := make(map[int]ledEffect)

	rt.led.init()

	for {
		// read all incoming messages at once
		keepReading := true
		for keepReading {
			select {
			case <-comms.quit:
				logger.Println("Got a quit signal")
				return
			case msg := <-comms.leds:
				if val, ok := leds[msg.pin]; ok {
					// if the state is changed, set the new effect state
					if msg.force || diffLEDEffect(val, msg) {
						logger.Printf("Received led message: %v", msg)
						leds[msg.pin] = setLEDEffect(msg)
					}
				} else {
					logger.Printf("Received led message: %v", msg)
					leds[msg.pin] = setLEDEffect(msg)
				}
			default:
				keepReading = false
			}
		}

		// for anything that we're doing blink on, see if it's time to toggle
		// also anything that is modeUnset needs to be initiated
		now := rt.clock.Now()
		for i, v := range leds {
			// negative duration is "ignore"
			if v.duration < 0 {
				continue
			}

			if v.curMode == modeUnset {
				if v.mode == modeOff {
					rt.led.off(v.pin)
					v.curMode = modeOff
					// never re-check
					v.duration = -1
				} else {
					rt.led.on(v.pin)
					v.curMode = modeOn
				}
				v.lastUpdate = now
				v.startTime = now
				leds[i] = v
				continue
			}

			// duration expired means turn it off
			if v.duration > 0 && now.Sub(v.startTime) >= v.duration {
				if v.curMode != modeOff {
					rt.led.off(v.pin)
				}
				v.duration = -1
				v.curMode = modeOff
				v.lastUpdate = time.Time{}
				v.startTime = time.Time{}
				leds[i] = v
				continue
			}

			up, ok := upTime(v.mode)
			if !ok {
				continue
			}
			down := time.Second - up
			timeInState := now.Sub(v.lastUpdate)

			if v.curMode == modeOff {
				if timeInState >= down {
					rt.led.on(v.pin)
					v.curMode = modeOn
					v.lastUpdate = now
					leds[i] = v
				}
			} else if up < time.Second && timeInState >= up {
				rt.led.off(v.pin)
				v.curMode = modeOff
				v.lastUpdate = now
				leds[i] = v
			}
		}

		select {
		case <-comms.quit:
			logger.Println("Got a quit signal")
			return
		case <-rt.clock.After(dLEDSleep):
		}
	}
}
