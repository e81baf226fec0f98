package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	_ "net/http/pprof" // Register pprof handlers
	"os"
	"os/signal"
	"syscall"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Dissonancell/trainee-telebot/internal/config"
	"github.com/Dissonancell/trainee-telebot/internal/gateway"
	"github.com/Dissonancell/trainee-telebot/internal/logger"
	"github.com/Dissonancell/trainee-telebot/internal/nlsql"
	"github.com/Dissonancell/trainee-telebot/internal/store"
	"github.com/Dissonancell/trainee-telebot/internal/telegram"
)

var (
	// Set by LDFLAGS
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const defaultMetricsAddr = "0.0.0.0:8080"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	verboseFlag := flag.Bool("verbose", false, "enable verbose (debug) logging")
	metricsAddrFlag := flag.String("metrics-addr", defaultMetricsAddr, "Address to listen on for prometheus metrics")
	enablePprofFlag := flag.Bool("enable-pprof", false, "enable pprof server")
	rulePromptFlag := flag.String("rule-prompt", "", "Path to a rule prompt file overriding the built-in revision")
	flag.Parse()

	_ = godotenv.Load()

	log := logger.New(*verboseFlag)

	cfg, err := config.LoadFromEnv(*metricsAddrFlag, *verboseFlag, *enablePprofFlag)
	if err != nil {
		return err
	}
	if *rulePromptFlag != "" {
		cfg.RulePromptFile = *rulePromptFlag
	}

	// Start pprof server if enabled
	if cfg.EnablePprof {
		go func() {
			log.Info("starting pprof server", "address", "localhost:6060")
			if err := http.ListenAndServe("localhost:6060", nil); err != nil {
				log.Error("failed to start pprof server", "error", err)
			}
		}()
	}

	// Start metrics server
	if cfg.MetricsAddr != "" {
		telegram.BuildInfo.WithLabelValues(version, commit, date).Set(1)
		go func() {
			listener, err := net.Listen("tcp", cfg.MetricsAddr)
			if err != nil {
				log.Error("failed to start prometheus metrics server listener", "error", err)
				return
			}
			log.Info("prometheus metrics server listening", "address", listener.Addr().String())
			http.Handle("/metrics", promhttp.Handler())
			if err := http.Serve(listener, nil); err != nil {
				log.Error("failed to start prometheus metrics server", "error", err)
			}
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	st, err := store.New(store.Config{
		Logger:       log,
		DB:           db,
		QueryTimeout: cfg.QueryTimeout,
	})
	if err != nil {
		return err
	}

	rulePrompt, err := nlsql.LoadRulePrompt(cfg.RulePromptFile)
	if err != nil {
		return err
	}

	anthropicClient := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey))
	translator, err := nlsql.NewTranslator(nlsql.TranslatorConfig{
		Logger:     log,
		Client:     anthropicClient,
		Model:      anthropic.Model(cfg.Model),
		RulePrompt: rulePrompt,
		Timeout:    cfg.ModelTimeout,
	})
	if err != nil {
		return err
	}

	handler, err := gateway.NewHandler(gateway.Config{
		Logger:     log,
		Translator: translator,
		Executor:   st,
	})
	if err != nil {
		return err
	}

	tgBot, err := telegram.New(telegram.Config{
		Logger:  log,
		Token:   cfg.BotToken,
		Handler: handler,
	})
	if err != nil {
		return err
	}

	log.Info("bot started", "model", cfg.Model, "version", version)
	tgBot.Run(ctx)
	log.Info("telegram bot shutting down")
	return nil
}
