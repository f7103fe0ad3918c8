package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/repairdepot/storefront/internal/localstore"
	"github.com/repairdepot/storefront/internal/quickorder"
	"github.com/repairdepot/storefront/pkg/config"
	"github.com/repairdepot/storefront/pkg/logger"
	"github.com/repairdepot/storefront/pkg/storefront"
)

// app is what every subcommand runs against. It is filled in by the root
// command's pre-run hook, so help and usage never touch the config.
type app struct {
	cfg    *config.ClientConfig
	api    *storefront.Client
	store  *localstore.Store
	logg   *logger.Logger
	out    io.Writer
	errOut io.Writer
}

// usageError marks bad invocations; they exit 2 and print the usage line.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

var errMissingArgs = usageError{errors.New("missing required flags")}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	a := &app{out: out, errOut: errOut}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	if _, _, err := root.Find(args); err != nil {
		fmt.Fprintln(errOut, err)
		fmt.Fprint(errOut, root.UsageString())
		return 2
	}

	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return 0
	}
	var usage usageError
	if errors.As(err, &usage) {
		fmt.Fprintln(errOut, "error:", usage.err)
		fmt.Fprint(errOut, cmd.UsageString())
		return 2
	}
	if a.logg != nil {
		a.logg.Error(cmd.Context(), "command failed", err)
	}
	fmt.Fprintln(errOut, "error:", err)
	return 1
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront client: cart, search, quick orders and local state",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.init(); err != nil {
				return err
			}
			cmd.SetContext(a.logg.WithField(cmd.Context(), "command", cmd.Name()))
			return nil
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
	root.AddCommand(
		cartCmd(a),
		cartQtyCmd(a),
		cartRemoveCmd(a),
		searchCmd(a),
		recentCmd(a),
		pinCmd(a),
		categoriesCmd(a),
		storesCmd(a),
		trackCmd(a),
		quoteCmd(a),
		quickOrderCmd(a),
		templatesCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logg = logger.New(logger.Options{
		ServiceName: "storefront-cli",
		Level:       logger.ParseLevel(cfg.LogLevel),
		Output:      a.errOut,
		Format:      logger.FormatConsole,
	})

	opts := []storefront.Option{storefront.WithTimeout(cfg.Timeout)}
	if cfg.Token != "" {
		opts = append(opts, storefront.WithToken(cfg.Token))
	}
	if a.api, err = storefront.NewClient(cfg.BaseURL, opts...); err != nil {
		return err
	}
	a.store, err = localstore.Open(cfg.LocalStore)
	return err
}

func (a *app) resolver() (quickorder.Resolver, error) {
	switch strings.ToLower(a.cfg.SKUResolver) {
	case "", "lookup":
		return quickorder.LookupResolver{Lookup: a.api}, nil
	case "search":
		return quickorder.SearchResolver{Search: a.api}, nil
	default:
		return nil, fmt.Errorf("unknown sku resolver %q", a.cfg.SKUResolver)
	}
}
