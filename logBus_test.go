package main

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type busWrite struct {
	at   time.Time
	addr uint8
	buf  []byte
}

// logBus records every transfer with the fake clock time it happened at.
// fail maps a transfer index (0 based) to the error it returns.
type logBus struct {
	mu    sync.Mutex
	clock clockwork.Clock
	fail  map[int]error
	audit []busWrite
}

func (lb *logBus) Transfer(addr uint8, buf []byte) error {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	var at time.Time
	if lb.clock != nil {
		at = lb.clock.Now()
	}
	n := len(lb.audit)
	lb.audit = append(lb.audit, busWrite{at: at, addr: addr, buf: append([]byte(nil), buf...)})
	log.Printf("Write @ 0x%02x: % x", addr, buf)
	if err, ok := lb.fail[n]; ok {
		return err
	}
	return nil
}

func (lb *logBus) writes() []busWrite {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return append([]busWrite(nil), lb.audit...)
}

func (w busWrite) String() string {
	return fmt.Sprintf("0x%02x: % x", w.addr, w.buf)
}
