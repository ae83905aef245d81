// Command talentctl searches, ingests and deletes candidates from the
// command line and serves the search tool over MCP.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/talentdex/internal/config"
	"github.com/kailas-cloud/talentdex/internal/version"
)

func main() {
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	tenantFlag := &cli.StringFlag{
		Name:     "tenant",
		Aliases:  []string{"t"},
		Usage:    "Tenant whose candidates are addressed",
		Required: true,
	}

	return &cli.App{
		Name:    "talentctl",
		Usage:   "Candidate search engine command line",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Usage:   "Configuration environment (local, dev, prod)",
				Value:   config.GetEnv(),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Override logging level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "search",
				Usage:  "Search candidates with a natural-language query",
				Action: searchCommand,
				Flags: []cli.Flag{
					tenantFlag,
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Natural-language query",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "filters",
						Aliases: []string{"f"},
						Usage:   `Filters as JSON, a list of {"key","value","operator"} or a key -> value object`,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of candidates (0 = configured default)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print results as JSON",
					},
				},
			},
			{
				Name:   "ingest",
				Usage:  "Ingest candidate profiles from a JSON Lines file",
				Action: ingestCommand,
				Flags: []cli.Flag{
					tenantFlag,
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"i"},
						Usage:    `JSONL file with one {"id","metadata","chunks"} object per line ("-" for stdin)`,
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Profiles per ingest call",
						Value: 50,
					},
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a candidate and all of its chunks",
				ArgsUsage: "<candidate-id>",
				Action:    deleteCommand,
				Flags:     []cli.Flag{tenantFlag},
			},
			{
				Name:   "health",
				Usage:  "Check backend and embedding provider health",
				Action: healthCommand,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the candidate search tool over MCP (stdio)",
				Action: mcpCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "default-tenant",
						Usage: "Tenant used when a tool call names none",
					},
				},
			},
		},
	}
}
