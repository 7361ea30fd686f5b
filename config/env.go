package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	EnvMaxStates = "AIRLOCKMC_MAX_STATES"
	EnvMaxDepth  = "AIRLOCKMC_MAX_DEPTH"
	EnvWorkers   = "AIRLOCKMC_WORKERS"
	EnvModel     = "AIRLOCKMC_MODEL"
)

// Defaults for the command line flags.
type Defaults struct {
	MaxStates int
	MaxDepth  int
	Workers   int
	// Path of the model file. Empty selects the embedded airlock model.
	Model string
}

// The defaults used when neither the environment nor a flag sets a value
func BuiltinDefaults() Defaults {
	return Defaults{
		MaxStates: 1 << 20,
		MaxDepth:  0,
		Workers:   runtime.GOMAXPROCS(0),
	}
}

// LoadDefaults reads the defaults from the environment.
//
// The env files are loaded first, without overriding variables that are already set.
// With no env files ".env" is loaded if it exists.
func LoadDefaults(envFile ...string) (Defaults, error) {
	if err := godotenv.Load(envFile...); err != nil {
		if len(envFile) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return Defaults{}, fmt.Errorf("config: loading env: %w", err)
		}
	}

	d := BuiltinDefaults()
	ints := []struct {
		key  string
		into *int
	}{
		{EnvMaxStates, &d.MaxStates},
		{EnvMaxDepth, &d.MaxDepth},
		{EnvWorkers, &d.Workers},
	}
	for _, k := range ints {
		if err := lookupInt(k.key, k.into); err != nil {
			return Defaults{}, err
		}
	}
	if value, ok := os.LookupEnv(EnvModel); ok {
		d.Model = value
	}
	return d, nil
}

func lookupInt(key string, into *int) error {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return fmt.Errorf("config: %v must be a non-negative integer, got %q", key, value)
	}
	*into = n
	return nil
}
