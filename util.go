// utility functions
package main

import (
	"github.com/jonboulle/clockwork"

	"dscheirer.com/segloop/journal"
)

type commChannels struct {
	quit    chan struct{}
	leds    chan ledEffect
	journal chan journal.Record
}

type runtimeConfig struct {
	settings      configSettings
	comms         commChannels
	clock         clockwork.Clock
	bus           transport
	led           led
	status        *sequencerStatus
	statusService statusService
	journal       *journal.Store
	logger        flogger
}

func initCommChannels() commChannels {
	return commChannels{
		quit:    make(chan struct{}),
		leds:    make(chan ledEffect, 20),
		journal: make(chan journal.Record, 256),
	}
}

func initRuntime(settings configSettings, clock clockwork.Clock, bus transport, led led, svc statusService) runtimeConfig {
	return runtimeConfig{
		settings:      settings,
		clock:         clock,
		bus:           bus,
		led:           led,
		statusService: svc,
		status:        newSequencerStatus(),
		comms:         initCommChannels(),
		logger:        &ThreadLogger{name: "main"},
	}
}

// quitting reports whether quit has been closed, without blocking.
func quitting(comms commChannels) bool {
	select {
	case <-comms.quit:
		return true
	default:
		return false
	}
}
