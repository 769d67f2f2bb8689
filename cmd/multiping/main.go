package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"ozzus/multiping/internal/api/munin"
	"ozzus/multiping/internal/checks"
	"ozzus/multiping/internal/config"
	"ozzus/multiping/internal/domain"
	"ozzus/multiping/internal/lib/logger/slogpretty"
	"ozzus/multiping/internal/repository"
	"ozzus/multiping/internal/repository/kafka"
	"ozzus/multiping/internal/service"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/prometheus/common/version"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	binName = "multiping"

	modeConfig   = "config"
	modeFetch    = "fetch"
	modeAutoconf = "autoconf"

	publishTimeout = 5 * time.Second
)

func main() {
	// munin runs plugins without one; a local .env is optional
	_ = godotenv.Load(".env")

	fs := ff.NewFlagSet(binName)
	displayVersion := fs.BoolLong("version", "Print version")
	configFile := fs.StringLong("config-file", "", "Path to configuration file (default: search for multiping.yaml)")
	metricName := fs.StringLong("metric", "", "Metric to report: latency or loss (default: from invocation name)")
	logLevel := fs.StringLong("log-level", "", "Log level: debug, info, warn, error")

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix(strings.ToUpper(binName)),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		code := flagErrorCode(err)
		if code != 0 {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(code)
	}

	if *displayVersion {
		fmt.Printf("%s v%s built on %s\n", binName, version.Version, version.BuildDate)
		os.Exit(0)
	}

	mode := modeFetch
	if args := fs.GetArgs(); len(args) > 0 {
		mode = args[0]
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	logOut, closeLog := setupLogOutput(cfg.Log.Dir)
	defer closeLog()

	log := setupLogger(cfg.Env, cfg.Log.Level, logOut)
	slog.SetDefault(log)

	metric, err := selectMetric(*metricName, os.Args[0])
	if err != nil {
		log.Error("invalid metric", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Debug("starting",
		"mode", mode,
		"metric", metric,
		"backend", cfg.Probe.Backend,
		"fork", cfg.Plugin.ForkEnabled(),
	)

	resolver := checks.NewHostResolver(cfg.Plugin.HostCommand, cfg.GetProbeTimeout(), log)

	var prober checks.Prober
	switch cfg.Probe.Backend {
	case config.BackendNative:
		prober = checks.NewNativePinger(checks.NativeOptions{
			Count:        cfg.Probe.Native.Count,
			Interval:     cfg.GetNativeInterval(),
			Timeout:      cfg.GetNativeTimeout(),
			Privileged:   cfg.Probe.Native.Privileged,
			Ping6Command: cfg.Plugin.Ping6,
		}, log)
	default:
		prober = checks.NewPingChecker(cfg.GetProbeTimeout(), log)
	}

	probeService := service.NewProbeService(
		resolver,
		prober,
		service.Config{
			Hosts:        cfg.Plugin.Hosts,
			Names:        cfg.Plugin.Names,
			PingCommand:  cfg.Plugin.Ping,
			Ping6Command: cfg.Plugin.Ping6,
			PingArgs:     cfg.Plugin.PingArgs,
			PingArgs2:    cfg.Plugin.PingArgs2,
			Fork:         cfg.Plugin.ForkEnabled(),
			MaxParallel:  cfg.Probe.MaxParallel,
			Metric:       metric,
		},
		log,
	)

	out := munin.NewWriter(os.Stdout, metric)

	switch mode {
	case modeAutoconf:
		if _, err := exec.LookPath(cfg.Plugin.Ping); err != nil {
			fmt.Printf("no (%s not found)\n", cfg.Plugin.Ping)
			return
		}
		fmt.Println("yes")

	case modeConfig:
		if err := out.Config(probeService.Enumerate(ctx)); err != nil {
			log.Error("failed to write config", "error", err)
			os.Exit(1)
		}

	case modeFetch:
		startedAt := time.Now()
		results := probeService.Run(ctx)

		if err := out.Fetch(results); err != nil {
			log.Error("failed to write values", "error", err)
			os.Exit(1)
		}

		if len(cfg.Kafka.Brokers) > 0 {
			publishResults(ctx, log, cfg.Kafka, probeService, startedAt, results)
		}

	default:
		log.Error("unknown mode", "mode", mode)
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		os.Exit(1)
	}
}

// flagErrorCode maps a flag parsing error to the exit status; asking for help
// is not a failure.
func flagErrorCode(err error) int {
	if errors.Is(err, ff.ErrHelp) {
		return 0
	}
	return 1
}

// selectMetric prefers an explicit flag and otherwise follows the munin
// convention of naming the loss variant "..._packetloss".
func selectMetric(flagValue, invocation string) (domain.Metric, error) {
	if flagValue != "" {
		return domain.ParseMetric(flagValue)
	}
	if strings.Contains(filepath.Base(invocation), "packetloss") {
		return domain.MetricPacketLoss, nil
	}
	return domain.MetricLatency, nil
}

func publishResults(
	ctx context.Context,
	log *slog.Logger,
	cfg config.KafkaConfig,
	probeService *service.ProbeService,
	startedAt time.Time,
	results []domain.ProbeResult,
) {
	producer := kafka.NewProducer(cfg.Brokers, cfg.Topic)
	defer func() {
		if err := producer.Close(); err != nil {
			log.Warn("failed to close kafka producer", "error", err)
		}
	}()

	repo := repository.NewKafkaResultRepository(producer, log)

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := probeService.Publish(pubCtx, repo, startedAt, results); err != nil {
		log.Warn("failed to publish results",
			"brokers", cfg.Brokers,
			"topic", cfg.Topic,
			"error", err,
		)
	}
}

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// setupLogOutput picks stderr, since stdout carries the plugin protocol, or a
// rotating file under dir.
func setupLogOutput(dir string) (io.Writer, func()) {
	if dir == "" {
		return os.Stderr, func() {}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "log dir %s unusable, logging to stderr: %v\n", dir, err)
		return os.Stderr, func() {}
	}

	w := &lumberjack.Logger{
		Filename:   filepath.Join(dir, binName+".log"),
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	}

	return w, func() { _ = w.Close() }
}

func setupLogger(env, level string, out io.Writer) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog(out, parseLevel(level, slog.LevelDebug))
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{Level: parseLevel(level, slog.LevelDebug)}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{Level: parseLevel(level, slog.LevelWarn)}),
		)
	default:
		log = setupPrettySlog(out, parseLevel(level, slog.LevelDebug))
	}

	return log
}

func setupPrettySlog(out io.Writer, level slog.Level) *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: level,
		},
	}

	handler := opts.NewPrettyHandler(out)

	return slog.New(handler)
}

func parseLevel(level string, fallback slog.Level) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return fallback
}
