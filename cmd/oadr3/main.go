// Command oadr3 lists objects from an OpenADR 3 VTN.
//
// Usage:
//
//	oadr3 [-config oadr3.yaml] [-v] programs|events|reports|vens|subscriptions
//
// Settings come from the config file, a .env file and OADR3_* variables.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"thde.io/oadr3"
	"thde.io/oadr3/config"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	verbose := flag.Bool("v", false, "log requests to stderr")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("could not load .env", slog.Any("error", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, logger, *configPath, flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, "oadr3:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, command string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	creds, err := cfg.Credentials()
	if err != nil {
		return err
	}

	client := oadr3.New(creds, append(cfg.Options(), oadr3.WithLogger(logger))...)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	switch command {
	case "programs":
		return printAll(enc, client.ProgramsIter(ctx, oadr3.ProgramParams{}))
	case "events":
		return printAll(enc, client.EventsIter(ctx, oadr3.EventParams{}))
	case "reports":
		return printAll(enc, client.ReportsIter(ctx, oadr3.ReportParams{}))
	case "vens":
		return printAll(enc, client.VensIter(ctx, oadr3.VenParams{}))
	case "subscriptions":
		resp, err := client.SearchSubscriptions(ctx, oadr3.SubscriptionParams{})
		if err != nil {
			return err
		}
		if err := resp.Err(); err != nil {
			return err
		}
		return enc.Encode(resp.Payload)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func printAll[T any](enc *json.Encoder, items iter.Seq2[T, error]) error {
	for item, err := range items {
		if err != nil {
			return err
		}
		if err := enc.Encode(item); err != nil {
			return err
		}
	}

	return nil
}
