// mycontent 是推荐服务的入口：serve 启动 HTTP 服务，recommend 在终端演示推荐结果。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rushteam/mycontent/config"
	"github.com/rushteam/mycontent/engine"
	"github.com/rushteam/mycontent/server"
)

var (
	cfgPath string
	preload bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "mycontent",
	Short:         "Content-based article recommendation service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config (defaults apply when empty)")
	serveCmd.Flags().BoolVar(&preload, "preload", false, "load data at startup instead of on first request")
	rootCmd.AddCommand(serveCmd, recommendCmd)
}

func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.Load(cfgPath)
}

func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recommendation HTTP service",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger()

		provider := engine.NewProvider(func(ctx context.Context) (*engine.Engine, error) {
			return engine.Load(ctx, cfg, logger)
		})
		if preload {
			if _, err := provider.Get(cmd.Context()); err != nil {
				return err
			}
		}

		srv := server.New(provider, cfg.Engine.DefaultTopN, logger)
		logger.Info().Str("addr", cfg.Server.Addr).Msg("listening")
		return http.ListenAndServe(cfg.Server.Addr, srv.Router())
	},
}

var (
	demoUserID int64
	demoTopN   int
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Print recommendations for a user (or a sample of users) to stdout",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger()

		eng, err := engine.Load(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}

		users := []int64{demoUserID}
		if demoUserID < 0 {
			users = eng.SampleUserIDs(5)
		}
		for _, userID := range users {
			recs := eng.Recommend(cmd.Context(), userID, demoTopN)
			out, err := json.MarshalIndent(map[string]any{
				"user_id":         userID,
				"recommendations": recs,
				"count":           len(recs),
			}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
		}
		return nil
	},
}

func init() {
	recommendCmd.Flags().Int64Var(&demoUserID, "user", -1, "user id (-1 walks a sample of known users)")
	recommendCmd.Flags().IntVar(&demoTopN, "top", 5, "number of recommendations")
}
