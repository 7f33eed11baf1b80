package main

import (
	"dscheirer.com/segloop/journal"
)

// most records written per transaction
const journalBatch = 64

// runJournal drains transfer records into the journal store until quit;
// whatever is queued at quit is flushed.
func runJournal(rt runtimeConfig) {
	logger := &ThreadLogger{name: "Journal"}
	defer func() {
		logger.Println("Exiting runJournal")
	}()

	comms := rt.comms
	batch := make([]journal.Record, 0, journalBatch)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := rt.journal.Append(batch...); err != nil {
			logger.Printf("append failed, dropped %d records: %v", len(batch), err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-comms.quit:
			// take what is already queued
			for len(comms.journal) > 0 {
				batch = append(batch, <-comms.journal)
				if len(batch) == journalBatch {
					flush()
				}
			}
			flush()
			return
		case rec := <-comms.journal:
			batch = append(batch, rec)
			// pick up anything else that's waiting
			keepReading := true
			for keepReading && len(batch) < journalBatch {
				select {
				case rec = <-comms.journal:
					batch = append(batch, rec)
				default:
					keepReading = false
				}
			}
			flush()
		}
	}
}
