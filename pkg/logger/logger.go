// Package logger builds the API's zerolog logger and holds the process-wide
// instance.
//
// Call Init once from main (usually with ForEnv), then Get anywhere else.
// Every entry carries the service name, and the deployment env when known.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ServiceName is stamped on every entry unless Options.Service overrides it.
const ServiceName = "attorney-portfolio"

// Field names shared by request logs, error logs and services, so one
// request's entries join on request_id and one caller's on user_id.
const (
	FieldService   = "service"
	FieldEnv       = "env"
	FieldRequestID = "request_id"
	FieldUserID    = "user_id"
	FieldRole      = "role"
)

type Options struct {
	// Level is trace, debug, info, warn (or warning) or error. Anything else
	// means info.
	Level string
	// Env is the deployment environment, logged as "env" when set.
	Env string
	// Pretty switches from JSON to zerolog's console writer.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service defaults to ServiceName.
	Service string
}

// ForEnv returns the options main uses: JSON in production, console output
// for every other environment.
func ForEnv(env, level string) Options {
	return Options{
		Level:  level,
		Env:    env,
		Pretty: !strings.EqualFold(strings.TrimSpace(env), "production"),
	}
}

var (
	instance    zerolog.Logger
	once        sync.Once
	initialized bool
)

// Init builds the process logger from opts and sets the global level. Later
// calls return the first logger unchanged.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		zerolog.SetGlobalLevel(parseLevel(opts.Level))
		instance = New(opts)
		initialized = true
	})
	return instance
}

// New builds a logger without touching the singleton or global level.
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	service := opts.Service
	if service == "" {
		service = ServiceName
	}

	ctx := zerolog.New(out).
		Level(parseLevel(opts.Level)).
		With().
		Timestamp().
		Caller().
		Str(FieldService, service)
	if env := strings.TrimSpace(opts.Env); env != "" {
		ctx = ctx.Str(FieldEnv, strings.ToLower(env))
	}
	return ctx.Logger()
}

// Get returns the logger built by Init and panics before that.
func Get() zerolog.Logger {
	if !initialized {
		panic("logger: Get() called before Init()")
	}
	return instance
}

// Reset forgets the singleton. Tests only.
func Reset() {
	once = sync.Once{}
	instance = zerolog.Logger{}
	initialized = false
}

func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return zerolog.WarnLevel
	}
	switch lvl, err := zerolog.ParseLevel(s); {
	case err != nil, s == "", lvl > zerolog.ErrorLevel:
		return zerolog.InfoLevel
	default:
		return lvl
	}
}
