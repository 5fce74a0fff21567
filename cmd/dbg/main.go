// Command dbg exercises namespace debug logging from the shell: it writes
// debug lines, reports which namespaces a pattern enables and shows the
// colors namespaces are assigned to.
//
//	DEBUG='app.*' dbg log -n app.db "connected to %s in %dms" primary 12
//	dbg --debug 'app.*,worker' match app.db app.http worker cron
//	dbg --color always color app.db worker
package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "dbg",
		Usage: "Namespace-scoped debug logging",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "TOML configuration file",
			},
			&cli.StringFlag{
				Name:  "debug",
				Usage: "Enablement pattern, overrides the environment (e.g. 'app.*,worker')",
			},
			&cli.StringFlag{
				Name:  "color",
				Usage: "Color mode: auto, always or never",
			},
		},
		Commands: []*cli.Command{
			LogCommand(),
			MatchCommand(),
			ColorCommand(),
		},
	}
}
