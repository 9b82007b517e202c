// Command storefront browses the catalog, manages a local cart and runs
// admin operations against the catalog API.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := execute(ctx, os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

// execute runs one CLI invocation and releases the session afterwards.
func execute(ctx context.Context, out io.Writer, args []string) error {
	c := &cli{}
	root := c.rootCmd(out)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if cerr := c.close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

type cli struct {
	apiURL   string
	backend  string
	cartDir  string
	adminKey string
	verbose  bool

	sess *session
}

// applyFlags overrides loaded values with explicitly set flags.
func (c *cli) applyFlags(cmd *cobra.Command, cfg *Config) {
	flags := cmd.Flags()
	if flags.Changed("api") {
		cfg.APIURL = c.apiURL
	}
	if flags.Changed("backend") {
		cfg.CartBackend = c.backend
	}
	if flags.Changed("cart-dir") {
		cfg.CartDir = c.cartDir
	}
	if flags.Changed("admin-key") {
		cfg.AdminKey = c.adminKey
	}
}

func (c *cli) close() error {
	if c.sess == nil {
		return nil
	}
	_ = c.sess.lg.Sync()
	return c.sess.Close()
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func (c *cli) rootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Browse the catalog and manage your cart",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			c.applyFlags(cmd, cfg)
			if err := cfg.validate(); err != nil {
				return err
			}
			lg, err := newLogger(c.verbose)
			if err != nil {
				return errors.Wrap(err, "create logger")
			}
			c.sess, err = newSession(cfg, lg, cmd.OutOrStdout())
			return err
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&c.apiURL, "api", "", "catalog API base URL")
	pf.StringVar(&c.backend, "backend", "", "cart storage backend: file, badger or redis")
	pf.StringVar(&c.cartDir, "cart-dir", "", "directory for the file and badger backends")
	pf.StringVar(&c.adminKey, "admin-key", "", "admin key, overrides the one saved by admin login")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		c.productsCmd(),
		c.productCmd(),
		c.categoriesCmd(),
		c.cartCmd(),
		c.adminCmd(),
	)
	return root
}
