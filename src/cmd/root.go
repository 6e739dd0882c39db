package cmd

import (
	"fmt"
	"io"
	"strings"

	"docinspect/src/directors"
	"docinspect/src/settings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version is reported by /json/version.
var Version = "0.1.0"

const envPrefix = "DOCINSPECT"

func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	args := settings.Defaults()

	rc := &cobra.Command{
		Use:   "docinspect",
		Short: "Inspect embedded document databases from a DevTools style debugger.",
		Long: `docinspect exposes the document databases in a data directory to
debugger frontends over a JSON-RPC websocket, and offers the same
views on the command line.

Every option can also be set with a DOCINSPECT_ environment
variable or in a configuration file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := setAllConfig(viper.New(), cmd.Flags()); err != nil {
				return err
			}
			return args.Validate()
		},
	}

	flags := rc.PersistentFlags()
	flags.StringVarP(&args.ConfigFile, "config", "c", "", "Configuration file to read from (yaml, toml or json).")
	flags.StringVarP(&args.DataDir, "data-dir", "d", args.DataDir, "Directory holding the database files.")
	flags.StringVar(&args.Extension, "extension", args.Extension, "File extension of database files.")
	flags.BoolVar(&args.ShowMetadata, "show-metadata", args.ShowMetadata, "Include _ prefixed keys and the type key in query results.")
	flags.StringVar(&args.Domain, "domain", args.Domain, "Domain label announced with every database.")
	flags.DurationVar(&args.OpenTimeout, "open-timeout", args.OpenTimeout, "How long to wait for a database file lock.")
	flags.StringVar(&args.LogFile, "log-file", "", "Also write logs to this file.")
	flags.BoolVar(&args.Debug, "debug", false, "Enable debug logging.")
	flags.BoolVarP(&args.Verbose, "verbose", "v", false, "Print the effective configuration on start.")

	rc.AddCommand(newServeCommand(args, stdin, stdout, stderr))
	rc.AddCommand(newDatabasesCommand(args, stdin, stdout, stderr))
	rc.AddCommand(newIDsCommand(args, stdin, stdout, stderr))
	rc.AddCommand(newQueryCommand(args, stdin, stdout, stderr))
	rc.AddCommand(newSeedCommand(args, stdin, stdout, stderr))
	rc.AddCommand(newExpireCommand(args, stdin, stdout, stderr))
	rc.AddCommand(newDropCommand(args, stdin, stdout, stderr))

	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}

// setAllConfig takes a FlagSet to be the definition of all configuration options, as
// well as their defaults. It then reads from the command line, the environment, and a
// config file (if specified), and applies the configuration in that priority order.
//
// Environment variables are the flag names upper-cased, with dashes replaced by
// underscores, prefixed with DOCINSPECT_.
func setAllConfig(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	validTags := make(map[string]bool)
	flags.VisitAll(func(f *pflag.Flag) {
		validTags[f.Name] = true
	})

	if c := v.GetString("config"); c != "" {
		v.SetConfigFile(c)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading configuration file '%s': %v", c, err)
		}
		for _, key := range v.AllKeys() {
			if !validTags[key] {
				return fmt.Errorf("invalid option in configuration file: %v", key)
			}
		}
	}

	var flagErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if flagErr != nil || f.Changed {
			// Flags set on the command line win.
			return
		}
		var value string
		if f.Value.Type() == "stringSlice" {
			// v.GetString is empty for a real slice from a config file.
			value = strings.Join(v.GetStringSlice(f.Name), ",")
		} else {
			value = v.GetString(f.Name)
		}
		flagErr = f.Value.Set(value)
	})
	return flagErr
}

// newServiceManager builds the logger and services shared by every subcommand.
func newServiceManager(args *settings.Arguments, stderr io.Writer) (*directors.ServiceManager, *zap.SugaredLogger, error) {
	logger, err := settings.NewLogger(args)
	if err != nil {
		return nil, nil, err
	}

	if args.Verbose {
		fmt.Fprintln(stderr, "docinspect starting with options:")
		fmt.Fprintf(stderr, "  Data Directory: %s\n", args.DataDir)
		fmt.Fprintf(stderr, "  Extension: %s\n", args.Extension)
		fmt.Fprintf(stderr, "  Show Metadata: %v\n", args.ShowMetadata)
		fmt.Fprintf(stderr, "  Domain: %s\n", args.Domain)
		fmt.Fprintf(stderr, "  Listen: %s:%d\n", args.Host, args.Port)
		fmt.Fprintf(stderr, "  Config File: %s\n", args.ConfigFile)
	}

	sm, err := directors.NewServiceManager(args, afero.NewOsFs(), logger)
	if err != nil {
		return nil, nil, err
	}
	return sm, logger, nil
}
