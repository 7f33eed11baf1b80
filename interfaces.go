package main

// transport is the blocking bus write primitive; *i2c.Master is the
// real one.
type transport interface {
	Transfer(addr uint8, buf []byte) error
}

type led interface {
	init()
	set(pin int, on bool)
	on(pin int)
	off(pin int)
}

type statusService interface {
	launch(handler *apiHandler, addr string)
	stop()
}
