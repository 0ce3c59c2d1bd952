package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yigit/elearning/internal/bootstrap"
	"github.com/yigit/elearning/internal/pkg/logger"
	"github.com/yigit/elearning/internal/server"
)

var (
	configPath string
	noMigrate  bool
	noSeed     bool
)

var rootCmd = &cobra.Command{
	Use:   "elearning",
	Short: "E-learning course platform API",
	Long: `Course catalog, teacher content management, enrollment, reviews and
rating-based course recommendations over a JSON HTTP API.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := server.NewServer(cmd.Context(), server.Options{
			ConfigPath: configPath,
			Migrate:    !noMigrate,
			Seed:       !noSeed,
		})
		if err != nil {
			return err
		}
		return srv.Run()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
		if err != nil {
			return err
		}
		database, err := bootstrap.ConnectDatabase(ctx, cfg, lgr)
		if err != nil {
			return err
		}
		defer database.Close()
		return bootstrap.RunMigrations(ctx, cfg, database, lgr)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create default subjects and the configured seed teacher",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
		if err != nil {
			return err
		}
		database, err := bootstrap.ConnectDatabase(ctx, cfg, lgr)
		if err != nil {
			return err
		}
		defer database.Close()

		deps, err := bootstrap.BuildDependencies(ctx, cfg, database, lgr)
		if err != nil {
			return err
		}
		return bootstrap.SeedDefaults(ctx, cfg, deps.Repos, lgr)
	},
}

var reclusterCmd = &cobra.Command{
	Use:   "recluster",
	Short: "Recompute recommendation clusters once",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
		if err != nil {
			return err
		}
		database, err := bootstrap.ConnectDatabase(ctx, cfg, lgr)
		if err != nil {
			return err
		}
		defer database.Close()

		deps, err := bootstrap.BuildDependencies(ctx, cfg, database, lgr)
		if err != nil {
			return err
		}
		return deps.Services.Recommendation.UpdateClusters(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the YAML config file")
	serveCmd.Flags().BoolVar(&noMigrate, "no-migrate", false, "Skip migrations on startup")
	serveCmd.Flags().BoolVar(&noSeed, "no-seed", false, "Skip default data on startup")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, reclusterCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
