package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/abyssdigger/dbg"
	"github.com/urfave/cli/v3"
)

// LogCommand creates the log command
func LogCommand() *cli.Command {
	return &cli.Command{
		Name:      "log",
		Usage:     "Write one debug line for a namespace",
		ArgsUsage: "FORMAT [ARGS...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "namespace",
				Aliases:  []string{"n"},
				Usage:    "Namespace to log under",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() == 0 {
				return errors.New("missing format")
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			registry := dbg.NewRegistryFromConfig(cfg)
			defer registry.Close()

			args := make([]any, 0, c.Args().Len()-1)
			for _, a := range c.Args().Tail() {
				args = append(args, a)
			}
			registry.New(c.String("namespace")).Log(c.Args().First(), args...)
			return nil
		},
	}
}

// MatchCommand creates the match command
func MatchCommand() *cli.Command {
	return &cli.Command{
		Name:      "match",
		Usage:     "Show whether namespaces are enabled by the current pattern",
		ArgsUsage: "NAMESPACE...",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			registry := dbg.NewRegistry(dbg.WithPattern(cfg.Pattern()))
			w := c.Root().Writer
			for _, ns := range c.Args().Slice() {
				state := "disabled"
				if registry.Enabled(ns) {
					state = "enabled"
				}
				fmt.Fprintf(w, "%s\t%s\n", ns, state)
			}
			return nil
		},
	}
}

// ColorCommand creates the color command
func ColorCommand() *cli.Command {
	return &cli.Command{
		Name:      "color",
		Usage:     "Show the color assigned to namespaces",
		ArgsUsage: "NAMESPACE...",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			palette := cfg.Palette()
			w := c.Root().Writer
			for _, ns := range c.Args().Slice() {
				idx := dbg.ColorIndex(ns)
				fmt.Fprintf(w, "%s\t%d\t%s\n", palette.For(ns)(ns), idx, dbg.PaletteNames[idx])
			}
			return nil
		},
	}
}

// loadConfig reads --config (if any) and applies the global flag overrides.
func loadConfig(c *cli.Command) (*dbg.Config, error) {
	cfg := dbg.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := dbg.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	if c.IsSet("debug") {
		pattern := c.String("debug")
		cfg.Debug = &pattern
	}
	if mode := c.String("color"); mode != "" {
		cfg.Color = dbg.ColorMode(mode)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Output == dbg.OUTPUT_STDOUT {
		cfg.Out = c.Root().Writer
	} else {
		cfg.Out = c.Root().ErrWriter
	}
	return cfg, nil
}
