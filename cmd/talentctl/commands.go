package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentdex/internal/app"
	"github.com/kailas-cloud/talentdex/internal/config"
	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
	domingest "github.com/kailas-cloud/talentdex/internal/domain/ingest"
	"github.com/kailas-cloud/talentdex/internal/domain/search/filter"
	"github.com/kailas-cloud/talentdex/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/talentdex/internal/logger"
	"github.com/kailas-cloud/talentdex/internal/metrics"
	mcptransport "github.com/kailas-cloud/talentdex/internal/transport/mcp"
	healthuc "github.com/kailas-cloud/talentdex/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/talentdex/internal/usecase/ingest"
)

// setup loads configuration and wires the services. The caller closes the app.
func setup(c *cli.Context) (*app.App, *zap.Logger, error) {
	env := c.String("env")
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logpkg.NewLogger(env, c.String("log-level"), logpkg.Quiet())
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	a, err := app.Build(c.Context, &cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("build services: %w", err)
	}
	return a, logger, nil
}

func searchCommand(c *cli.Context) error {
	filters, err := filter.DecodeRaws([]byte(c.String("filters")))
	if err != nil {
		return fmt.Errorf("--filters: %w", err)
	}
	req, err := request.New(c.String("tenant"), c.String("query"), filters, c.Int("limit"))
	if err != nil {
		return err
	}

	a, logger, err := setup(c)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, usage := domain.NewContextWithUsage(logpkg.ContextWithLogger(c.Context, logger))
	out, err := a.Search.Search(ctx, &req)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	logger.Debug("search finished", zap.Int("embedding_tokens", usage.TotalTokens))

	if c.Bool("json") {
		return printOutcomeJSON(c.App.Writer, out)
	}
	printOutcome(c.App.Writer, out)
	return nil
}

func ingestCommand(c *cli.Context) error {
	in, closeIn, err := openInput(c.String("file"))
	if err != nil {
		return err
	}
	defer closeIn()

	lines, err := readProfiles(in)
	if err != nil {
		return err
	}
	profiles := make([]candidate.Profile, 0, len(lines))
	for _, l := range lines {
		p, perr := l.profile()
		if perr != nil {
			printFailure(c.App.ErrWriter, l.ID, perr)
			continue
		}
		profiles = append(profiles, p)
	}

	a, logger, err := setup(c)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := logpkg.ContextWithLogger(c.Context, logger)

	size := c.Int("batch-size")
	if size <= 0 || size > ingestuc.MaxProfiles {
		size = ingestuc.MaxProfiles
	}
	var results []domingest.Result
	for _, batch := range chunked(profiles, size) {
		res, ierr := a.Ingest.Ingest(ctx, c.String("tenant"), batch)
		if ierr != nil {
			return fmt.Errorf("ingest: %w", ierr)
		}
		results = append(results, res...)
	}

	printIngest(c.App.Writer, results, len(lines)-len(profiles))
	return nil
}

func deleteCommand(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("candidate id argument is required")
	}

	a, _, err := setup(c)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.Ingest.Delete(c.Context, c.String("tenant"), id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	printSuccess(c.App.Writer, "deleted %s (%d chunks)", id, n)
	return nil
}

func healthCommand(c *cli.Context) error {
	a, _, err := setup(c)
	if err != nil {
		return err
	}
	defer a.Close()

	report := a.Health.Check(c.Context)
	printHealth(c.App.Writer, report)
	if report.Status == healthuc.Unhealthy {
		return cli.Exit("", 1)
	}
	return nil
}

func mcpCommand(c *cli.Context) error {
	a, logger, err := setup(c)
	if err != nil {
		return err
	}
	defer a.Close()

	logger.Info("Serving MCP over stdio", zap.String("default_tenant", c.String("default-tenant")))
	return mcptransport.NewServer(a.Search, c.String("default-tenant"), logger).ServeStdio()
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}

func chunked[T any](items []T, size int) [][]T {
	var out [][]T
	for len(items) > 0 {
		n := min(size, len(items))
		out = append(out, items[:n])
		items = items[n:]
	}
	return out
}
