// cmd/parkvision/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"parkvision-client/internal/cli"
	"parkvision-client/internal/common/cache"
	"parkvision-client/internal/common/config"
	commonhttp "parkvision-client/internal/common/http"
	"parkvision-client/internal/common/logger"
	"parkvision-client/internal/common/observability"
	"parkvision-client/internal/common/parkingapi"
	"parkvision-client/internal/common/validation"
	"parkvision-client/internal/livefeed"
	sessiontimer "parkvision-client/internal/screens/session-timer"
	"parkvision-client/internal/session"
	"parkvision-client/internal/timer"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func historyFile() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".parkvision_history")
	}
	return filepath.Join(os.TempDir(), ".parkvision_history")
}

func startMetricsServer(cfg config.MetricsConfig, zapLog *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: cfg.Address(), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		zapLog.Info("Metrics server listening", zap.String("addr", cfg.Address()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Metrics server failed", zap.Error(err))
		}
	}()
	return srv
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting parkvision client",
		zap.String("environment", cfg.App.Environment),
		zap.String("service", cfg.Service.BaseURL),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	if cfg.Metrics.Enabled {
		srv := startMetricsServer(cfg.Metrics, zapLog)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	apiOpts := []parkingapi.Option{parkingapi.WithObservability(obs)}
	if cfg.Cache.Enabled() {
		redisCache := cache.NewRedis(cfg.Cache)
		err = retryWithBackoff(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisCache.Ping(ctx)
		}, 3, 500*time.Millisecond, zapLog, "Redis connection")
		if err != nil {
			zapLog.Warn("running without cache", zap.Error(err))
			_ = redisCache.Close()
		} else {
			defer redisCache.Close()
			apiOpts = append(apiOpts, parkingapi.WithCache(redisCache))
			zapLog.Info("Redis cache connected")
		}
	}

	api := parkingapi.New(cfg.Service.BaseURL, commonhttp.NewClient(config.GetDuration(cfg.Service.Timeout)), log, apiOpts...)

	validator, err := validation.NewFormValidator()
	if err != nil {
		zapLog.Fatal("form validator failed", zap.Error(err))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		zapLog.Fatal("readline init failed", zap.Error(err))
	}
	defer rl.Close()

	sess := session.NewContext(log)
	loop := sessiontimer.NewLoop(64)
	printer := cli.NewPrinter(rl.Stdout(), func(prompt string) {
		rl.SetPrompt(prompt)
		rl.Refresh()
	})

	ctrl, err := sessiontimer.NewController(&sessiontimer.Config{
		TickInterval:   config.GetDuration(cfg.Session.TickInterval),
		RequestTimeout: config.GetDuration(cfg.Service.Timeout),
	}, sessiontimer.Dependencies{
		Session:   sess,
		Service:   api,
		View:      printer,
		Clock:     timer.SystemClock{},
		Scheduler: timer.NewTickerScheduler(loop.Dispatch),
		Logger:    log,
		Post:      loop.Dispatch,
	})
	if err != nil {
		zapLog.Fatal("session screen init failed", zap.Error(err))
	}
	defer func() {
		loop.Do(ctrl.Close)
		loop.Close()
	}()

	var dialFeed cli.FeedDialer
	if cfg.LiveStream.URL != "" {
		dialFeed = func(ctx context.Context) (*livefeed.Feed, error) {
			return livefeed.Dial(ctx, cfg.LiveStream, log)
		}
	}

	c := cli.NewCLI(rl, cli.Deps{
		API:       api,
		Session:   sess,
		Screen:    ctrl,
		Do:        loop.Do,
		Validator: validator,
		DialFeed:  dialFeed,
		Clock:     timer.SystemClock{},
		Logger:    log,
		Timeout:   config.GetDuration(cfg.Service.Timeout),
	})
	printer.OnNavigate(c.Navigated)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM)
	go func() {
		<-sigCh
		zapLog.Info("Shutdown signal received")
		_ = rl.Close()
	}()

	fmt.Fprintln(rl.Stdout(), "Welcome to ParkVision! Use 'help' for the list of commands.")

	for {
		err := c.Run()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				fmt.Fprintln(rl.Stdout(), "Use 'exit' or 'quit' to exit the program.")
				continue
			} else if errors.Is(err, io.EOF) {
				break
			}
			fmt.Fprintln(rl.Stdout(), "Error:", cli.FormatError(err))
		}
	}

	zapLog.Info("parkvision client stopped")
}
