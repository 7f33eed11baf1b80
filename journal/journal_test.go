package journal

import (
	"path/filepath"
	"testing"
	"time"

	"gotest.tools/assert"
)

func openTemp(t *testing.T) *Store {
	s, err := Open(filepath.Join(t.TempDir(), "journal.db"), nil)
	assert.NilError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendRecent(t *testing.T) {
	s := openTemp(t)
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	var recs []Record
	for i := 0; i < 5; i++ {
		recs = append(recs, Record{
			At:      start.Add(time.Duration(i) * time.Millisecond),
			Phase:   "PHASE_A",
			Address: 0x08,
			Payload: "50 c0 c0 50",
		})
	}
	assert.NilError(t, s.Append(recs...))
	assert.NilError(t, s.Append())

	got, err := s.Recent(3)
	assert.NilError(t, err)
	assert.Equal(t, len(got), 3)
	// newest first
	assert.Assert(t, got[0].ID > got[1].ID)
	assert.Assert(t, got[0].At.Equal(start.Add(4*time.Millisecond)))
	assert.Equal(t, got[0].Payload, "50 c0 c0 50")
	assert.Assert(t, !got[0].Failed())
}

func TestFailures(t *testing.T) {
	s := openTemp(t)
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	assert.NilError(t, s.Append(
		Record{At: start, Phase: "CONFIGURED", Address: 0x08, Payload: "11 11"},
		Record{At: start.Add(time.Second), Phase: "PHASE_B", Address: 0x08, Payload: "51 30 f0 91", Error: "i2c: transfer error"},
		Record{At: start.Add(2 * time.Second), Phase: "PHASE_C", Address: 0x08, Payload: "52 0f 0c 51", Error: "i2c: short write"},
	))

	n, err := s.Failures(start)
	assert.NilError(t, err)
	assert.Equal(t, n, int64(2))

	n, err = s.Failures(start.Add(1500 * time.Millisecond))
	assert.NilError(t, err)
	assert.Equal(t, n, int64(1))
}
