// Command unitctl requests HyperUnit deposit addresses and checks their
// guardian signatures.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	"hyperunit-sdk/client"
	"hyperunit-sdk/guardian"
	"hyperunit-sdk/shared"
)

// errUntrusted makes unitctl exit non-zero after printing an unverified result.
var errUntrusted = errors.New("address is not trusted")

type globalOptions struct {
	Network  string        `short:"n" long:"network" description:"Bridge network (default from UNIT_NETWORK, else mainnet)" choice:"mainnet" choice:"testnet"`
	BaseURL  string        `long:"base-url" description:"Override the bridge API URL"`
	Registry string        `long:"registry" description:"Guardian registry JSON file pinning node keys"`
	Timeout  time.Duration `long:"timeout" description:"Per-request timeout"`
	Verbose  bool          `short:"v" long:"verbose" description:"Debug logging to stderr"`
	Quiet    bool          `short:"q" long:"quiet" description:"Only log errors"`
}

type app struct {
	opts   globalOptions
	ctx    context.Context
	out    io.Writer
	logger *shared.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()

	var flagsErr *flags.Error
	switch {
	case err == nil:
	case errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp:
		fmt.Fprintln(os.Stdout, flagsErr.Message)
	case errors.Is(err, errUntrusted):
		fmt.Fprintln(os.Stderr, "unitctl:", err)
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "unitctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if err := shared.LoadDotEnv(); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}

	a := &app{ctx: ctx, out: out}
	defer func() {
		if a.logger != nil {
			_ = a.logger.Sync()
		}
	}()

	parser := flags.NewParser(&a.opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "unitctl"

	commands := []struct {
		name, short, long string
		data              interface{}
	}{
		{"gen", "Generate a deposit address", "Request a deposit address from the bridge and optionally verify its guardian signatures.", &genCommand{app: a}},
		{"verify", "Verify a saved bundle", "Re-check the guardian signatures in a bundle written by gen --bundle.", &verifyCommand{app: a}},
		{"operations", "List operations for an address", "List the generated addresses and bridge operations linked to an address.", &operationsCommand{app: a}},
		{"fees", "Show fee estimates", "Show current fee and processing time estimates per network.", &feesCommand{app: a}},
		{"queue", "Show withdrawal queues", "Show the bitcoin and ethereum withdrawal queues.", &queueCommand{app: a}},
		{"guardians", "List guardian nodes", "List the guardian nodes and keys signatures are checked against.", &guardiansCommand{app: a}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			return err
		}
	}

	_, err := parser.ParseArgs(args)
	return err
}

func (a *app) log() *shared.Logger {
	if a.logger != nil {
		return a.logger
	}
	cfg := shared.LoggerConfig{
		ServiceName: "unitctl",
		Development: a.opts.Verbose || shared.GetEnvBoolOrDefault("DEVELOPMENT", false),
		Quiet:       a.opts.Quiet || shared.GetEnvBoolOrDefault("LOG_QUIET", false),
	}
	logger, err := shared.NewLogger(cfg)
	if err != nil {
		logger = shared.NewNopLogger()
	}
	a.logger = logger
	return logger
}

// config merges UNIT_* environment settings with command line overrides.
func (a *app) config() (*client.Config, error) {
	cfg, err := client.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}

	if a.opts.Network != "" {
		network, err := guardian.ParseNetwork(a.opts.Network)
		if err != nil {
			return nil, err
		}
		cfg.Network = network
	}
	if a.opts.BaseURL != "" {
		cfg.BaseURL = a.opts.BaseURL
	}
	if a.opts.Registry != "" {
		cfg.RegistryPath = a.opts.Registry
	}
	if a.opts.Timeout > 0 {
		cfg.Timeout = a.opts.Timeout
	}
	cfg.Logger = a.log()

	return cfg, nil
}

func (a *app) client() (*client.Client, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	return client.New(cfg)
}

func (a *app) print(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
