package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jonboulle/clockwork"

	"dscheirer.com/segloop/i2c"
	"dscheirer.com/segloop/journal"
)

// segloop -config={config file}

var wg sync.WaitGroup

func launch(name string, f func(rt runtimeConfig), rt runtimeConfig) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		rt.logger.Printf("starting %s", name)
		f(rt)
	}()
}

func main() {
	configFile := flag.String("config", "/etc/default/segloop/segloop.conf", "config file path")
	simulated := flag.Bool("simulated", false, "log bus writes instead of using /dev/i2c")
	flag.Parse()

	settings := initSettings(*configFile)
	if *simulated {
		settings.set(sI2CSimulated, true)
	}

	logFile, err := setupLogging(settings, true)
	if err != nil {
		log.Fatalf("Could not set up logging: %v", err)
	}
	defer logFile.Close()

	log.Println(">>> Settings <<<")
	settings.Dump()

	clock := clockwork.NewRealClock()

	master, err := i2c.Open(settings.GetInt(sI2CBus), settings.GetByte(sI2CDev), settings.GetBool(sI2CSimulated), i2c.Options{
		Timeout:      settings.GetDuration(sI2CTimeout),
		PollInterval: settings.GetDuration(sI2CPollInterval),
		MaxPolls:     settings.GetInt(sI2CMaxPolls),
		Clock:        clock,
	})
	if err != nil {
		log.Fatalf("Could not open i2c bus %d: %v", settings.GetInt(sI2CBus), err)
	}
	defer master.Close()

	rt := initRuntime(settings, clock, master, newLed(settings), &httpStatusService{})

	if path := settings.GetString(sJournalPath); path != "" {
		store, err := journal.Open(path, log.New(os.Stderr, "journal: ", log.LstdFlags))
		if err != nil {
			log.Fatalf("Could not open journal '%s': %v", path, err)
		}
		defer store.Close()
		rt.journal = store
		launch("journal", runJournal, rt)
	}

	if settings.GetString(sStatusAddr) != "" {
		launch("status service", runStatusService, rt)
	}
	launch("led controller", runLEDController, rt)

	// the sequencer ending (cycle limit or halt) does not stop the
	// others; a halted display keeps its error LED blinking
	launch("sequencer", runSequencer, rt)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Printf("Got %v, shutting down", sig)
		close(rt.comms.quit)
	}()

	wg.Wait()
}
