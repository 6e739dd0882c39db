package settings

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultExtension is the file extension of a database file in the data directory.
const DefaultExtension = ".docdb"

type Arguments struct {
	// The directory holding the database files
	DataDir string

	// Extension recognised as a database file, including the leading dot
	Extension string

	// ShowMetadata keeps "_" prefixed keys and the type discriminator in query results
	ShowMetadata bool

	// Domain label announced with every database
	Domain string

	// the host name or IP address to listen on
	Host string

	// the port number to listen on
	Port int

	LogFile    string
	ConfigFile string

	// Development logging, debug level
	Debug bool

	// Strongly verbose logging
	Verbose bool

	AuthEnabled bool     // Require basic auth on the bridge
	Users       []string // name:password pairs

	// How long to wait for a database file lock before giving up
	OpenTimeout time.Duration
}

// Defaults returns a fresh Arguments with every option at its default value.
func Defaults() *Arguments {
	return &Arguments{
		DataDir:      "./datafiles",
		Extension:    DefaultExtension,
		ShowMetadata: true,
		Domain:       "docinspect",
		Host:         "127.0.0.1",
		Port:         9222,
		OpenTimeout:  time.Second,
	}
}

// Validate checks the arguments and returns an error if any is invalid.
func (a *Arguments) Validate() error {
	if a.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}
	if info, err := os.Stat(a.DataDir); err == nil && !info.IsDir() {
		return fmt.Errorf("data directory path exists but is not a directory: %s", a.DataDir)
	}

	if !strings.HasPrefix(a.Extension, ".") || len(a.Extension) < 2 {
		return fmt.Errorf("invalid extension: %q (must start with '.')", a.Extension)
	}

	if a.Port < 1 || a.Port > 65535 {
		return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", a.Port)
	}

	if a.OpenTimeout < 0 {
		return fmt.Errorf("open timeout cannot be negative: %s", a.OpenTimeout)
	}

	if a.AuthEnabled && len(a.Users) == 0 {
		return fmt.Errorf("auth is enabled but no users are configured")
	}
	for _, u := range a.Users {
		if name, _, ok := strings.Cut(u, ":"); !ok || name == "" {
			return fmt.Errorf("invalid user entry %q (want name:password)", u)
		}
	}

	return nil
}

// NewLogger builds the process logger and installs it as the zap global.
func NewLogger(args *Arguments) (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error

	if args.Debug {
		z := zap.NewDevelopmentConfig()
		z.OutputPaths = []string{"stdout"}
		if args.LogFile != "" {
			z.OutputPaths = append(z.OutputPaths, args.LogFile)
		}
		logger, err = z.Build()
	} else {
		z := zap.NewProductionConfig()
		if args.LogFile != "" {
			z.OutputPaths = append(z.OutputPaths, args.LogFile)
		}
		logger, err = z.Build()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	zap.ReplaceGlobals(logger)
	return logger.Sugar(), nil
}
