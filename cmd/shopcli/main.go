// Command shopcli browses the storefront catalog and manages a cart from the
// terminal. While signed out the cart is a JSON file on disk; after login the
// same commands operate on the account's cart on the server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopcraft/storefront/internal/infrastructure/logger"
	"go.uber.org/zap"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Config file (default: ./shopcli.toml)")
	flag.Usage = printUsage
	flag.Parse()

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Output = "stderr"
	logCfg.Level = "warn"
	if cfg.Debug {
		logCfg.Level = "debug"
	}
	log, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	a, err := newApp(cfg, os.Stdout, log)
	if err != nil {
		log.Fatal("Failed to initialize client", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx, flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			printUsage()
			os.Exit(2)
		}
		log.Debug("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", errorMessage(err))
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Storefront command line client

Usage:
  shopcli [-config file] <command> [arguments]

Commands:
  products [-search s] [-category c] [-min p] [-max p]   List products
  categories                                           List categories
  add [-qty n] <productId>                             Add a product to the cart
  set <lineId> <qty>                                   Change a quantity (0 removes)
  remove <lineId>                                      Remove a line
  clear                                                Empty the cart
  cart                                                 Show the cart and totals
  register <username> <password>                       Create an account and sign in
  login <username> <password>                          Sign in
  logout                                               Sign out
  whoami                                               Show the signed in user

Configuration (shopcli.toml or SHOPCLI_* variables):
  server     API base URL (default http://localhost:8080)
  data_dir   where cart.json and session.json are kept
  timeout    request timeout (default 10s)`)
}
