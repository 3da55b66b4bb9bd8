package main

import (
	"database/sql"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/swaglabs/storefront-e2e/internal/accounts"
	internalcli "github.com/swaglabs/storefront-e2e/internal/cli"
	"github.com/swaglabs/storefront-e2e/internal/config"
	"github.com/swaglabs/storefront-e2e/internal/database"
	"github.com/swaglabs/storefront-e2e/internal/handlers"
	"github.com/swaglabs/storefront-e2e/internal/repository"
	"github.com/swaglabs/storefront-e2e/internal/visual"
)

var version = "0.1.0"

var logLevelFlag = &cli.StringFlag{
	Name:    "log-level",
	Usage:   "logrus level",
	Value:   "info",
	EnvVars: []string{"LOG_LEVEL"},
}

// newLogger builds the process logger from the log-level flag
func newLogger(c *cli.Context) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.String("log-level"))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	log := logrus.New()
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log, nil
}

// loadCatalog reads the catalog at path, or the embedded one when path is empty
func loadCatalog(path string) (*accounts.Catalog, error) {
	if path == "" {
		return accounts.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return accounts.Parse(data)
}

var catalogFlag = &cli.StringFlag{
	Name:    "catalog",
	Usage:   "credential catalog YAML (defaults to the built-in accounts)",
	EnvVars: []string{"ACCOUNTS_FILE"},
}

// ServeCommand returns the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the local replica storefront",
		Flags: []cli.Flag{
			catalogFlag,
			&cli.DurationFlag{
				Name:    "glitch-delay",
				Usage:   "login delay for performance_glitch_user",
				Value:   5 * time.Second,
				EnvVars: []string{"GLITCH_DELAY"},
			},
		},
		Action: func(c *cli.Context) error {
			log, err := newLogger(c)
			if err != nil {
				return err
			}
			catalog, err := loadCatalog(c.String("catalog"))
			if err != nil {
				return err
			}

			deps, err := internalcli.BuildServerDependencies(
				config.LoadServerConfig(os.Getenv),
				catalog,
				handlers.DefaultProducts(),
				c.Duration("glitch-delay"),
				log,
			)
			if err != nil {
				return err
			}
			return internalcli.RunServe(deps)
		},
	}
}

// accountEntry is the YAML shape printed by the accounts command
type accountEntry struct {
	Username         string `yaml:"username"`
	ExpectedBehavior string `yaml:"expected_behavior"`
	Description      string `yaml:"description"`
}

// AccountsCommand returns the accounts command
func AccountsCommand() *cli.Command {
	return &cli.Command{
		Name:  "accounts",
		Usage: "List the credential catalog",
		Flags: []cli.Flag{
			catalogFlag,
			&cli.StringFlag{Name: "behavior", Usage: "only list accounts expected to behave this way"},
			&cli.BoolFlag{Name: "yaml", Usage: "print YAML instead of a table"},
		},
		Action: func(c *cli.Context) error {
			catalog, err := loadCatalog(c.String("catalog"))
			if err != nil {
				return err
			}

			list := catalog.All()
			if b := c.String("behavior"); b != "" {
				list = catalog.WithBehavior(accounts.Behavior(b))
			}

			out := c.App.Writer
			if c.Bool("yaml") {
				entries := make([]accountEntry, 0, len(list))
				for _, a := range list {
					entries = append(entries, accountEntry{a.Username, string(a.ExpectedBehavior), a.Description})
				}
				enc := yaml.NewEncoder(out)
				defer enc.Close()
				return enc.Encode(entries)
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "USERNAME\tBEHAVIOR\tDESCRIPTION")
			for _, a := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\n", a.Username, a.ExpectedBehavior, a.Description)
			}
			return w.Flush()
		},
	}
}

// CompareCommand returns the compare command
func CompareCommand() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "Compare a screenshot with its baseline",
		ArgsUsage: "ACTUAL.png BASELINE.png",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:    "pixel-threshold",
				Usage:   "colour distance in [0, 1] below which pixels are equal",
				Value:   config.DefaultPixelThreshold,
				EnvVars: []string{"PIXEL_THRESHOLD"},
			},
			&cli.Float64Flag{
				Name:    "max-diff-ratio",
				Value:   config.DefaultMaxDiffRatio,
				EnvVars: []string{"MAX_DIFF_RATIO"},
			},
			&cli.StringFlag{Name: "diff", Usage: "write the highlighted difference to this PNG"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("compare needs ACTUAL and BASELINE", 2)
			}
			if v := c.Float64("pixel-threshold"); v < 0 || v > 1 {
				return cli.Exit("pixel-threshold must be within [0, 1]", 2)
			}

			actual, err := os.ReadFile(c.Args().Get(0))
			if err != nil {
				return err
			}
			baseline, err := os.ReadFile(c.Args().Get(1))
			if err != nil {
				return err
			}

			tol := visual.Tolerance{
				PixelThreshold: c.Float64("pixel-threshold"),
				MaxDiffRatio:   c.Float64("max-diff-ratio"),
			}
			res, err := visual.Compare(actual, baseline, tol)
			if err != nil {
				return err
			}

			if path := c.String("diff"); path != "" && res.Diff != nil {
				if err := writePNG(path, res.Diff); err != nil {
					return err
				}
			}

			if !res.Within(tol) {
				mismatch := &visual.MismatchError{Name: c.Args().Get(0), Result: res}
				return cli.Exit(mismatch.Error(), 1)
			}
			fmt.Fprintf(c.App.Writer, "match: %d of %d pixels differ\n", res.DiffPixels, res.Width*res.Height)
			return nil
		},
	}
}

// RunsCommand returns the runs command
func RunsCommand() *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "Inspect the journey run ledger",
		Subcommands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Create the run ledger schema",
				Action: func(c *cli.Context) error {
					db, err := openLedger()
					if err != nil {
						return err
					}
					defer db.Close()
					return database.RunMigrations(db)
				},
			},
			{
				Name:      "list",
				Usage:     "List the latest runs of a journey",
				ArgsUsage: "JOURNEY",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("list needs a JOURNEY", 2)
					}
					db, err := openLedger()
					if err != nil {
						return err
					}
					defer db.Close()

					runs, err := repository.NewRunRepository(db).ListByJourney(c.Args().First(), c.Int("limit"))
					if err != nil {
						return err
					}

					w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tACCOUNT\tSTATUS\tSTATE\tSTARTED\tDURATION\tFAILURE")
					for _, r := range runs {
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
							r.ID, r.Account, r.Status, r.FinalState,
							r.StartedAt.Format(time.RFC3339), r.Duration().Round(time.Millisecond), r.Failure)
					}
					return w.Flush()
				},
			},
		},
	}
}

func openLedger() (*sql.DB, error) {
	pgConfig, err := config.LoadPostgresConfig(os.Getenv)
	if errors.Is(err, config.ErrPostgresNotConfigured) {
		return nil, cli.Exit("the run ledger is not configured: set POSTGRES_HOSTNAME", 2)
	}
	if err != nil {
		return nil, err
	}
	return database.Open(pgConfig)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "storefront-e2e",
		Usage:   "Browser journeys for the Swag Labs storefront",
		Version: version,
		Flags:   []cli.Flag{logLevelFlag},
		Commands: []*cli.Command{
			ServeCommand(),
			AccountsCommand(),
			CompareCommand(),
			RunsCommand(),
		},
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug(".env file not found, using environment variables")
	}

	if err := newApp().Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("storefront-e2e failed")
	}
}
