package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParsing is returned when environment variables cannot be parsed into
// the configuration struct.
var ErrParsing = errors.New("failed to parse configuration")

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> any (value of T)
	loadMu     sync.Mutex
)

// Load fills cfg from the environment. The first successful load of each
// type is cached and copied into cfg on later calls.
func Load[T any](cfg *T) error {
	typ := reflect.TypeFor[T]()
	if cached, ok := cache.Load(typ); ok {
		*cfg = cached.(T)
		return nil
	}

	// .env is optional, a missing file is not an error
	dotenvOnce.Do(func() { _ = godotenv.Load() })

	loadMu.Lock()
	defer loadMu.Unlock()

	if cached, ok := cache.Load(typ); ok {
		*cfg = cached.(T)
		return nil
	}

	var loaded T
	if err := env.Parse(&loaded); err != nil {
		return fmt.Errorf("%w: %w", ErrParsing, err)
	}

	cache.Store(typ, loaded)
	*cfg = loaded
	return nil
}

// MustLoad is like Load but panics on error.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// LoadFrom fills cfg from the given variables instead of the process
// environment. Results are not cached.
func LoadFrom[T any](cfg *T, environ map[string]string) error {
	var loaded T
	if err := env.ParseWithOptions(&loaded, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("%w: %w", ErrParsing, err)
	}
	*cfg = loaded
	return nil
}
