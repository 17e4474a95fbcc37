// Command lootctl is a terminal client for the storefront: browse the
// catalog, keep a local cart, check out and run the admin dashboard.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog"

	"github.com/digitalloot/storefront/pkg/cart"
	"github.com/digitalloot/storefront/pkg/localstore"
	"github.com/digitalloot/storefront/pkg/storefront"
)

const usage = `usage: lootctl [-config file] <command> [args]

catalog:  products, featured, platforms, product ID
cart:     cart add ID | inc ID | dec ID | rm ID | clear | show
account:  register, login, logout, me
orders:   checkout, orders, order ID, cancel ID, contact
admin:    admin orders|order|stats|status|next|delete|export|users|promote|demote|messages
`

func main() {
	global := flag.NewFlagSet("lootctl", flag.ContinueOnError)
	global.SetOutput(os.Stderr)
	global.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	cfgPath := global.String("config", defaultConfigPath(), "config file")
	if err := global.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := newLogger(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := localstore.Open(cfg.Store)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Store).Msg("open local store")
	}

	a := newApp(storefront.New(cfg.Gateway, store, storefront.WithTimeout(cfg.Timeout)), store, os.Stdout, logger)
	if err := a.run(ctx, global.Args()); err != nil {
		var apiErr *storefront.APIError
		switch {
		case errors.Is(err, errUsage):
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		case errors.As(err, &apiErr):
			logger.Error().Int("status", apiErr.Status).Msg(apiErr.Message)
		default:
			logger.Error().Err(err).Msg("command failed")
		}
		os.Exit(1)
	}
}

func newLogger(cfg Config, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || cfg.Log.Level == "" {
		level = zerolog.WarnLevel
	}
	if cfg.Log.Pretty {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Str("app", "lootctl").Logger()
}

type app struct {
	client *storefront.Client
	cart   *cart.Cart
	out    io.Writer
	log    zerolog.Logger
}

func newApp(client *storefront.Client, store *localstore.Store, out io.Writer, log zerolog.Logger) *app {
	return &app{client: client, cart: cart.Load(store), out: out, log: log}
}
