package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/techxplorers/portfolio/internal/adapter/driven/localauth"
	"github.com/techxplorers/portfolio/internal/application"
	"github.com/techxplorers/portfolio/internal/bootstrap"
	"github.com/techxplorers/portfolio/internal/config"
	"github.com/techxplorers/portfolio/internal/domain/model"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "portfolioctl",
		Short: "Operate the service portfolio catalog",
		Long: `Operate the service portfolio catalog from the command line.

Store and auth settings are read from the same PORTFOLIO_ environment
variables as the server.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newHashPasswordCmd(), newListCmd(), newSeedCmd())
	return root
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash for PORTFOLIO_OPERATOR_PASSWORD_HASH",
		Long: `Print the bcrypt hash to configure as PORTFOLIO_OPERATOR_PASSWORD_HASH.

The password is read from the first argument, or from the first line of
stdin when no argument is given.

Examples:
  portfolioctl hash-password 's3cret'
  echo 's3cret' | portfolioctl hash-password`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := ""
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			hash, err := localauth.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

// listedService is the JSON shape printed by list.
type listedService struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Price       string   `json:"price,omitempty"`
	Features    []string `json:"features"`
	Icon        string   `json:"icon"`
	Highlight   bool     `json:"highlight"`
	ImagePath   string   `json:"imagePath,omitempty"`
	Description string   `json:"description"`
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every service as JSON",
		Long: `Print every service in the configured catalog store as a JSON array,
ordered by category and then title.

Examples:
  portfolioctl list
  portfolioctl list | jq '.[].title'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCatalog(cmd.Context(), func(ctx context.Context, env *cliEnv) error {
				records, err := env.catalog.Fetch(ctx)
				if err != nil {
					return err
				}

				sort.SliceStable(records, func(i, j int) bool {
					if records[i].Category != records[j].Category {
						return records[i].Category < records[j].Category
					}
					return model.PlainTitle(records[i].Title) < model.PlainTitle(records[j].Title)
				})

				out := make([]listedService, 0, len(records))
				for _, r := range records {
					features := r.Features
					if features == nil {
						features = []string{}
					}
					out = append(out, listedService{
						ID:          r.ID,
						Title:       r.Title,
						Category:    string(r.Category),
						Price:       r.Price,
						Features:    features,
						Icon:        r.Icon,
						Highlight:   r.Highlight,
						ImagePath:   r.ImagePath,
						Description: r.Description,
					})
				}

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			})
		},
	}
}

func newSeedCmd() *cobra.Command {
	var (
		email    string
		password string
		file     string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Add the default services to the catalog",
		Long: `Sign in as the operator and add the built-in default services, or the
services of a seed file, to the catalog. Existing services are kept.

Seeding is not transactional: when a write fails the command stops and
reports how many services were created.

Examples:
  portfolioctl seed --email ops@example.com --password 's3cret'
  portfolioctl seed --email ops@example.com --password 's3cret' --file services.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := seedRecords(file)
			if err != nil {
				return err
			}

			return withCatalog(cmd.Context(), func(ctx context.Context, env *cliEnv) error {
				session, err := env.gate.Login(ctx, email, password)
				if err != nil {
					return err
				}
				defer func() { _ = env.gate.Logout(ctx, session.ID) }()

				ctx = model.ContextWithSession(ctx, &session)
				report, err := env.catalog.SeedBatch(ctx, records)
				if err != nil {
					if errors.Is(err, model.ErrPartialBatch) {
						return fmt.Errorf("seeding stopped: %d of %d services created: %w",
							report.Created, report.Attempted, err)
					}
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Database seeded: %d services created.\n", report.Created)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "operator email")
	cmd.Flags().StringVar(&password, "password", "", "operator password")
	cmd.Flags().StringVarP(&file, "file", "f", "", "seed file (default: built-in services)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func seedRecords(path string) ([]model.ServiceRecord, error) {
	if path == "" {
		return application.DefaultServices()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return application.ParseSeed(data)
}

// cliEnv is the set of services a command works with.
type cliEnv struct {
	catalog *application.CatalogService
	gate    *application.SessionGate
}

// withCatalog loads configuration, opens the stores and runs fn. Logs go to
// stderr so stdout stays machine-readable.
func withCatalog(ctx context.Context, fn func(context.Context, *cliEnv) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	key, err := bootstrap.SecretKey(cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		return err
	}

	stores, err := bootstrap.OpenStores(ctx, cfg, key, logger)
	if err != nil {
		return err
	}
	defer func() { _ = stores.Close() }()

	provider, err := bootstrap.NewAuthProvider(cfg)
	if err != nil {
		return err
	}

	return fn(ctx, &cliEnv{
		catalog: application.NewCatalogService(stores.Catalog, cfg.CategoryPolicy, logger),
		gate:    application.NewSessionGate(provider, stores.Sessions, cfg.SessionTTL, logger),
	})
}
