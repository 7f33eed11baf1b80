package main

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

type flogger interface {
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}

// ThreadLogger tags every line with the goroutine it came from.
type ThreadLogger struct {
	name string
}

func (tl *ThreadLogger) Printf(format string, v ...interface{}) {
	log.Printf(tl.name+": "+format, v...)
}

func (tl *ThreadLogger) Println(v ...interface{}) {
	log.Println(append([]interface{}{tl.name + ":"}, v...)...)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// setupLogging points the standard logger at a rotating log file, and
// the console as well when asked to. An empty logFile logs to stderr only.
func setupLogging(settings configSettings, console bool) (io.WriteCloser, error) {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	fileName := settings.GetString(sLogFile)
	if fileName == "" {
		log.SetOutput(os.Stderr)
		return nopCloser{os.Stderr}, nil
	}

	if _, err := os.Stat(filepath.Dir(fileName)); err != nil {
		return nil, err
	}

	lj := &lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
	}

	if console {
		log.SetOutput(io.MultiWriter(os.Stderr, lj))
	} else {
		log.SetOutput(lj)
	}
	return lj, nil
}
