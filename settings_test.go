package main

import (
	"testing"
	"time"

	"gotest.tools/assert"
)

func TestSettingsFromJSON(t *testing.T) {
	s := defaultSettings()
	err := s.settingsFromJSON([]byte(`{
		"i2cDevice": "0x3c",
		"i2cBus": 0,
		"i2cMaxPolls": 500,
		"frameDelay": "2ms",
		"reconfigure": "true",
		"failurePolicy": "halt",
		"unknownKey": 12
	}`))
	assert.NilError(t, err)

	assert.Equal(t, s.GetByte(sI2CDev), byte(0x3c))
	assert.Equal(t, s.GetInt(sI2CBus), 0)
	assert.Equal(t, s.GetInt(sI2CMaxPolls), 500)
	assert.Equal(t, s.GetDuration(sFrameDelay), 2*time.Millisecond)
	assert.Equal(t, s.GetBool(sReconfigure), true)
	assert.Equal(t, s.GetString(sFailurePolicy), "halt")
	// untouched defaults
	assert.Equal(t, s.GetDuration(sConfigDelay), 10*time.Millisecond)
	assert.Equal(t, s.GetDuration(sPhaseDelay), time.Second)
	assert.Equal(t, s.GetInt(sCycles), 0)
}

func TestSettingsByteAsInt(t *testing.T) {
	s := defaultSettings()
	assert.NilError(t, s.settingsFromJSON([]byte(`{"i2cDevice": 80}`)))
	assert.Equal(t, s.GetByte(sI2CDev), byte(0x50))

	// highest 7-bit address
	assert.NilError(t, s.settingsFromJSON([]byte(`{"i2cDevice": "0x7f"}`)))
	assert.Equal(t, s.GetByte(sI2CDev), byte(0x7f))
}

func TestSettingsBadValues(t *testing.T) {
	for _, data := range []string{
		`{"i2cDevice": 300}`,
		`{"i2cDevice": 128}`,
		`{"i2cDevice": "0x80"}`,
		`{"i2cDevice": "eight"}`,
		`{"frameDelay": "soon"}`,
		`{"i2cBus": "one"}`,
	} {
		s := defaultSettings()
		assert.Assert(t, s.settingsFromJSON([]byte(data)) != nil, data)
	}
}

func TestInitSettingsFile(t *testing.T) {
	s := initSettings(cfgFile)
	assert.Equal(t, s.GetBool(sI2CSimulated), true)
	assert.Equal(t, s.GetByte(sI2CDev), byte(0x08))
	assert.Equal(t, s.GetDuration(sI2CTimeout), 50*time.Millisecond)
	assert.Equal(t, s.GetInt(sCycles), 1)
	assert.Equal(t, s.GetString(sLogFile), "")
}
