// Package cli implements wakalactl, a terminal client for the savings,
// investment and loan API.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wakaladigital/wakala/internal/app/apiclient"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// envPrefix maps --api-url to WAKALA_API_URL and so on.
const envPrefix = "WAKALA"

// Output formats accepted by --output.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// ErrNoToken is returned when a command needs the API and no token was given.
var ErrNoToken = errors.New("no API token: pass --token or set WAKALA_TOKEN")

// Options holds the resolved global settings.
type Options struct {
	APIURL      string
	Token       string
	Output      string
	Timeout     time.Duration
	NoColor     bool
	Verbose     bool
	Concurrency int
}

// Env is what every subcommand runs against.
type Env struct {
	Options
	Client *apiclient.Client
	Log    *zap.Logger
	Out    io.Writer
	Err    io.Writer
}

type envKey struct{}

// NewRootCommand builds the wakalactl command tree. Flags are bound to a
// private viper instance so each command tree resolves its own settings.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	var configPath string

	cmd := &cobra.Command{
		Use:   "wakalactl",
		Short: "Terminal client for Wakala savings groups, investments and loans",
		Long: `wakalactl talks to the Wakala REST API with your API token.

Settings resolve from flags, then WAKALA_* environment variables, then the
optional --config file (YAML, TOML or JSON).`,
		Version:       apiclient.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, v, configPath)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), envKey{}, env))
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file path")
	pf.String("api-url", "http://localhost:8000/api", "base URL of the REST API")
	pf.String("token", "", "API token")
	pf.StringP("output", "o", OutputTable, "output format (table, json)")
	pf.Duration("timeout", 15*time.Second, "overall timeout for one command")
	pf.Bool("no-color", false, "disable coloured output")
	pf.BoolP("verbose", "v", false, "log API requests to stderr")
	pf.Int("concurrency", 8, "maximum concurrent per-group requests")

	_ = v.BindPFlags(pf)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd.AddCommand(
		newDashboardCmd(),
		newGroupsCmd(),
		newInvestmentsCmd(),
		newLoansCmd(),
	)
	return cmd
}

func newEnv(cmd *cobra.Command, v *viper.Viper, configPath string) (*Env, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	opts := Options{
		APIURL:      v.GetString("api-url"),
		Token:       v.GetString("token"),
		Output:      strings.ToLower(v.GetString("output")),
		Timeout:     v.GetDuration("timeout"),
		NoColor:     v.GetBool("no-color"),
		Verbose:     v.GetBool("verbose"),
		Concurrency: v.GetInt("concurrency"),
	}
	if opts.Output != OutputTable && opts.Output != OutputJSON {
		return nil, fmt.Errorf("unknown output format %q (table, json)", opts.Output)
	}
	if opts.Concurrency < 1 {
		return nil, fmt.Errorf("concurrency must be at least 1")
	}
	if opts.Token == "" {
		return nil, ErrNoToken
	}
	if opts.NoColor {
		color.NoColor = true
	}

	logger, err := newLogger(opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	client, err := apiclient.NewClient(opts.APIURL, apiclient.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return &Env{
		Options: opts,
		Client:  client.WithToken(opts.Token),
		Log:     logger,
		Out:     cmd.OutOrStdout(),
		Err:     cmd.ErrOrStderr(),
	}, nil
}

// newLogger logs requests in development format when verbose and only
// warnings otherwise.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.Encoding = "console"
	return cfg.Build()
}

// envFrom returns the Env stored by PersistentPreRunE.
func envFrom(cmd *cobra.Command) *Env {
	env, _ := cmd.Context().Value(envKey{}).(*Env)
	return env
}

// withTimeout bounds one command by --timeout.
func (e *Env) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.Timeout)
}

// Execute runs wakalactl with os.Args and returns the process exit code.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), describe(err))
		return 1
	}
	return 0
}

// describe turns API errors into one line for the terminal.
func describe(err error) string {
	var ve *apiclient.ValidationError
	if errors.As(err, &ve) {
		parts := append([]string(nil), ve.NonField...)
		for _, name := range ve.FieldNames() {
			parts = append(parts, name+": "+strings.Join(ve.Fields[name], " "))
		}
		return strings.Join(parts, "; ")
	}
	if apiclient.IsUnauthorized(err) {
		return "the API rejected the token (" + err.Error() + ")"
	}
	return err.Error()
}
