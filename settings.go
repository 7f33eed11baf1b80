package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/buger/jsonparser"

	"dscheirer.com/segloop/segpanel"
)

// setting keys
const (
	sI2CBus          = "i2cBus"
	sI2CDev          = "i2cDevice"
	sI2CSimulated    = "i2cSimulated"
	sI2CTimeout      = "i2cTimeout"
	sI2CPollInterval = "i2cPollInterval"
	sI2CMaxPolls     = "i2cMaxPolls"
	sConfigDelay     = "configDelay"
	sFrameDelay      = "frameDelay"
	sPhaseDelay      = "phaseDelay"
	sReconfigure     = "reconfigure"
	sFailurePolicy   = "failurePolicy"
	sCycles          = "cycles"
	sDebug           = "debugDump"
	sLogFile         = "logFile"
	sStatusAddr      = "statusAddr"
	sJournalPath     = "journalPath"
	sLeds            = "leds"
	sLedSuccessPin   = "ledSuccessPin"
	sLedErrorPin     = "ledErrorPin"
)

type configSettings interface {
	GetString(key string) string
	GetBool(key string) bool
	GetDuration(key string) time.Duration
	GetByte(key string) byte
	GetInt(key string) int
	Dump()
}

// keep settings generic, type-convert on the fly
type settings struct {
	settings map[string]interface{}
}

func defaultSettings() *settings {
	s := make(map[string]interface{})

	// setting the type here makes the conversion "automatic" later
	s[sI2CBus] = 1
	s[sI2CDev] = byte(segpanel.DefaultAddress)
	s[sI2CTimeout], _ = time.ParseDuration("100ms")
	s[sI2CPollInterval], _ = time.ParseDuration("0s")
	s[sI2CMaxPolls] = 100000
	s[sConfigDelay], _ = time.ParseDuration("10ms")
	s[sFrameDelay], _ = time.ParseDuration("1ms")
	s[sPhaseDelay], _ = time.ParseDuration("1000ms")
	s[sReconfigure] = false
	s[sFailurePolicy] = "ignore"
	s[sCycles] = 0 // forever
	s[sDebug] = false
	s[sLogFile] = "/var/log/segloop.log"
	s[sStatusAddr] = ""
	s[sJournalPath] = ""
	s[sLeds] = "log"
	s[sLedSuccessPin] = 20
	s[sLedErrorPin] = 21

	on := true
	if runtime.GOARCH == "arm" {
		on = false
	}
	s[sI2CSimulated] = on

	return &settings{settings: s}
}

func (s *settings) settingsFromJSON(data []byte) error {
	tmp := defaultSettings()
	for k, initVal := range tmp.settings {
		// ignore missing fields
		_, dataType, _, err := jsonparser.Get(data, k)
		if dataType == jsonparser.NotExist {
			continue
		}
		if err != nil {
			return err
		}

		switch initVal.(type) {
		case uint8:
			var val int64
			val, err = jsonparser.GetInt(data, k)
			if err != nil {
				// allow "0x08" style strings
				var valString string
				valString, err = jsonparser.GetString(data, k)
				if err == nil {
					val, err = strconv.ParseInt(valString, 0, 64)
				}
			}
			if err == nil {
				// byte settings are 7-bit bus addresses
				if val < 0 || val > 0x7f {
					err = fmt.Errorf("Value out of range for %s: %d", k, val)
				} else {
					s.settings[k] = byte(val)
				}
			}
		case int:
			var val int64
			val, err = jsonparser.GetInt(data, k)
			if err == nil {
				s.settings[k] = int(val)
			}
		case bool:
			var bVal bool
			bVal, err = jsonparser.GetBoolean(data, k)
			if err != nil {
				// try "true" and "false"
				str, _ := jsonparser.GetString(data, k)
				switch strings.ToLower(str) {
				case "true":
					bVal, err = true, nil
				case "false":
					bVal, err = false, nil
				}
			}
			if err == nil {
				s.settings[k] = bVal
			}
		case time.Duration:
			var dur string
			dur, err = jsonparser.GetString(data, k)
			if err == nil {
				var dur2 time.Duration
				dur2, err = time.ParseDuration(dur)
				if err == nil {
					s.settings[k] = dur2
				}
			}
		case string:
			s.settings[k], err = jsonparser.GetString(data, k)
		default:
			err = fmt.Errorf("Bad type: %T", initVal)
		}
		if err != nil {
			return fmt.Errorf("setting %s: %v", k, err)
		}
	}
	return nil
}

func initSettings(configFile string) *settings {
	log.Println("initSettings")

	// defaults
	s := defaultSettings()

	// try to open the config file
	data, err := ioutil.ReadFile(configFile)
	if err != nil {
		log.Fatalf("Could not load conf file '%s', terminating", configFile)
	}

	log.Printf("Reading configuration from '%s'", configFile)

	if err := s.settingsFromJSON(data); err != nil {
		log.Fatal(err.Error())
	}

	return s
}

func (s *settings) set(key string, val interface{}) {
	s.settings[key] = val
}

func (s *settings) GetString(key string) string {
	switch v := s.settings[key].(type) {
	case string:
		return v
	default:
		return ""
	}
}

func (s *settings) GetBool(key string) bool {
	switch v := s.settings[key].(type) {
	case bool:
		return v
	default:
		return false
	}
}

func (s *settings) GetDuration(key string) time.Duration {
	switch v := s.settings[key].(type) {
	case time.Duration:
		return v
	default:
		return -1
	}
}

func (s *settings) GetByte(key string) byte {
	switch v := s.settings[key].(type) {
	case byte:
		return v
	case int: // cast to byte
		return byte(v)
	default:
		return 0
	}
}

func (s *settings) GetInt(key string) int {
	switch v := s.settings[key].(type) {
	case int:
		return v
	default:
		return 0
	}
}

func (s *settings) Dump() {
	keys := make([]string, 0, len(s.settings))
	for k := range s.settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := s.settings[k]
		log.Printf("%s : %T: %v\n", k, v, v)
	}
}
