package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server settings read from the environment
type Config struct {
	Port         int
	TickInterval time.Duration
	TimeStep     float64 // simulated seconds per tick, 0 uses the scenario's dt
	Scenario     string  // JSON file or built-in name, empty for the solar system
	TrackTarget  int
	TrackCenter  int
	NameSeed     uint64
	DebugOrbit   bool
}

// Defaults returns the settings used when nothing is configured
func Defaults() Config {
	return Config{
		Port:         8080,
		TickInterval: 50 * time.Millisecond,
		TrackTarget:  -1,
		TrackCenter:  -1,
		NameSeed:     1,
	}
}

// InitConfig loads a .env file from the working directory if one exists
func InitConfig() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
		return
	}

	log.Println("Successfully loaded environment variables")
}

func GetEnvVariable(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("input param empty")
	}
	b := os.Getenv(v)
	if b == "" {
		return "", fmt.Errorf("failed to get variable for %s", v)
	}

	return b, nil
}

// Load reads the ORBITABLE_* variables on top of Defaults. Values that do
// not parse are logged and left at their default.
func Load() Config {
	cfg := Defaults()

	if v, ok := lookupInt("ORBITABLE_PORT"); ok && v > 0 && v < 65536 {
		cfg.Port = v
	}
	if v, ok := lookupInt("ORBITABLE_TICK_MS"); ok && v > 0 {
		cfg.TickInterval = time.Duration(v) * time.Millisecond
	}
	if v, ok := lookupFloat("ORBITABLE_TIME_STEP"); ok && v > 0 {
		cfg.TimeStep = v
	}
	if v, err := GetEnvVariable("ORBITABLE_SCENARIO"); err == nil {
		cfg.Scenario = v
	}
	if v, ok := lookupInt("ORBITABLE_TRACK_TARGET"); ok {
		cfg.TrackTarget = v
	}
	if v, ok := lookupInt("ORBITABLE_TRACK_CENTER"); ok {
		cfg.TrackCenter = v
	}
	if s, err := GetEnvVariable("ORBITABLE_NAME_SEED"); err == nil {
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			cfg.NameSeed = v
		} else {
			log.Printf("Ignoring ORBITABLE_NAME_SEED=%q: %v", s, err)
		}
	}
	if s, err := GetEnvVariable("DEBUG_ORBIT"); err == nil {
		if v, err := strconv.ParseBool(s); err == nil {
			cfg.DebugOrbit = v
		} else {
			log.Printf("Ignoring DEBUG_ORBIT=%q: %v", s, err)
		}
	}

	return cfg
}

func lookupInt(name string) (int, bool) {
	s, err := GetEnvVariable(name)
	if err != nil {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Ignoring %s=%q: %v", name, s, err)
		return 0, false
	}
	return v, true
}

func lookupFloat(name string) (float64, bool) {
	s, err := GetEnvVariable(name)
	if err != nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Printf("Ignoring %s=%q: %v", name, s, err)
		return 0, false
	}
	return v, true
}
