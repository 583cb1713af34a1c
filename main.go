package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fasal-sarthi-core/client/internal/advisory/gateway"
	"github.com/fasal-sarthi-core/client/internal/advisory/model"
	"github.com/fasal-sarthi-core/client/internal/advisory/views"
	"github.com/fasal-sarthi-core/client/internal/core"
	errx "github.com/fasal-sarthi-core/client/internal/core/error"
	logx "github.com/fasal-sarthi-core/client/pkg/logger"
	pkgredis "github.com/fasal-sarthi-core/client/pkg/redis"
)

// AppConfig defines all configurable parameters of the client, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment core.Environment `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// Advisory services
	Gateway model.GatewayConfig
	Weather model.WeatherConfig
	Chat    model.ChatConfig
}

// errReported marks a failure whose message has already been rendered.
var errReported = errors.New("request failed")

var rootCmd = &cobra.Command{
	Use:           "sarthi",
	Short:         "Fasal Sarthi agricultural advisory client",
	Long:          "Fasal Sarthi scans leaf images for disease, recommends crops and fertilizers, shows local weather and answers farming questions.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "error:", errx.UserMessage(err))
		}
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("SARTHI")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("api-base", "", "advisory services origin (overrides API_BASE_URL)")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("env", "", "environment: development, staging, testing or production")
	rootCmd.PersistentFlags().String("location", "", "device position as \"lat,lon\" for --here lookups")
	_ = viper.BindPFlag("api-base", rootCmd.PersistentFlags().Lookup("api-base"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("env", rootCmd.PersistentFlags().Lookup("env"))
	_ = viper.BindPFlag("location", rootCmd.PersistentFlags().Lookup("location"))
}

func registerCommands() {
	rootCmd.AddCommand(weatherCmd())
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(cropCmd())
	rootCmd.AddCommand(fertilizerCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(transcriptCmd())
}

// app holds the dependencies shared by every command.
type app struct {
	cfg     AppConfig
	gw      *gateway.Client
	render  *views.Renderer
	cleanup func()
}

func loadConfig() (AppConfig, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		logx.Warn().Err(err).Msg("could not load .env file")
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("process environment config: %w", err)
	}
	if base := strings.TrimSpace(viper.GetString("api-base")); base != "" {
		cfg.Gateway.BaseURL = base
	}
	if env := viper.GetString("env"); env != "" {
		cfg.Environment = core.ParseEnvironment(env)
	}
	return cfg, nil
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logx.Init(logx.LoggerOpts{Environment: cfg.Environment})

	gw := gateway.New(cfg.Gateway)
	logx.Debug().Str("base_url", gw.BaseURL()).Str("env", cfg.Environment.String()).Msg("client configured")

	return &app{
		cfg:     cfg,
		gw:      gw,
		render:  views.New(os.Stdout, viper.GetBool("json")),
		cleanup: func() {},
	}, nil
}

// withApp builds the shared dependencies, runs fn and releases them.
func withApp(fn func(ctx context.Context, a *app, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.cleanup()
		return fn(cmd.Context(), a, args)
	}
}
