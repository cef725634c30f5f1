package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	webview "github.com/webview/webview_go"
	"go.uber.org/zap"

	"github.com/kartoza/cardio-risk/internal/config"
	"github.com/kartoza/cardio-risk/internal/logging"
	"github.com/kartoza/cardio-risk/internal/predict"
	"github.com/kartoza/cardio-risk/internal/registry"
	"github.com/kartoza/cardio-risk/internal/render"
	"github.com/kartoza/cardio-risk/internal/server"
	"github.com/kartoza/cardio-risk/internal/tui"
)

var version = "dev"

func main() {
	// Parse command-line flags
	port := flag.Int("port", 8080, "HTTP server port")
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file (optional)")
	modelDir := flag.String("model-dir", "", "Directory containing the model artifacts")
	lang := flag.String("lang", "", "UI language (en, id)")
	headless := flag.Bool("headless", false, "Run in headless mode (no GUI window)")
	terminal := flag.Bool("tui", false, "Run the form in the terminal instead of a window")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Cardio Risk v%s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Explicit flags take priority over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "model-dir":
			cfg.ModelDir = *modelDir
		case "lang":
			cfg.Language = *lang
		}
	})
	cfg.Version = version
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load the models once; a failure is reported by the UI, not fatal here
	loader := registry.NewLoader(cfg.ModelDir, cfg.Artifacts, logger.Named("registry"))
	avail := loader.Load()

	var invoker *predict.Invoker
	if set, ok := avail.Models(); ok {
		invoker, err = predict.NewInvoker(set,
			predict.WithCacheSize(cfg.CacheSize),
			predict.WithLogger(logger.Named("predict")),
		)
		if err != nil {
			logger.Fatal("failed to create prediction invoker", zap.Error(err))
		}
		if cfg.WatchModels {
			if err := loader.Watch(ctx); err != nil {
				logger.Warn("model directory not watched", zap.Error(err))
			}
		}
	}

	renderer, err := render.New(cfg.Language)
	if err != nil {
		logger.Fatal("failed to create renderer", zap.Error(err))
	}

	if *terminal {
		if err := tui.New(invoker, renderer, avail.Err(), os.Stdout).Run(ctx); err != nil {
			logger.Error("terminal form exited", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	// Find an available port (try up to 10 ports starting from the requested one)
	availablePort, err := findAvailablePort(cfg.Port, 10)
	if err != nil {
		logger.Fatal("failed to find available port", zap.Error(err))
	}
	if availablePort != cfg.Port {
		logger.Info("port in use, using another", zap.Int("requested", cfg.Port), zap.Int("port", availablePort))
	}
	cfg.Port = availablePort

	logger.Info("Cardio Risk starting",
		zap.String("version", version),
		zap.Int("port", cfg.Port),
		zap.String("model_dir", cfg.ModelDir),
		zap.Bool("models_ready", avail.Ready()),
	)

	// Create and start the server
	srv, err := server.New(cfg, loader, invoker, logger.Named("server"))
	if err != nil {
		logger.Fatal("failed to create server", zap.Error(err))
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// Wait for server to be ready
	serverURL := fmt.Sprintf("http://localhost:%d", cfg.Port)
	waitForServer(logger, serverURL, 10*time.Second)

	if *headless {
		// Headless mode: wait for signal or error
		select {
		case err := <-errCh:
			if err != nil {
				logger.Fatal("server error", zap.Error(err))
			}
		case <-ctx.Done():
			logger.Info("received signal, shutting down")
			if err := srv.Stop(); err != nil {
				logger.Error("error during shutdown", zap.Error(err))
			}
		}
		return
	}

	// GUI mode: open embedded WebView window
	logger.Info("opening application window")
	w := webview.New(false)
	defer w.Destroy()

	w.SetTitle(renderer.Strings().Title)
	w.SetSize(800, 1000, webview.HintNone)
	w.Navigate(serverURL)

	// When the webview window closes, shut down the server
	go func() {
		select {
		case err := <-errCh:
			if err != nil {
				logger.Error("server error", zap.Error(err))
			}
		case <-ctx.Done():
			logger.Info("received signal, shutting down")
			w.Terminate()
		}
	}()

	// Run blocks until the window is closed
	w.Run()

	logger.Info("window closed, shutting down server")
	if err := srv.Stop(); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
}

// waitForServer polls until the server is accepting connections
func waitForServer(logger *zap.Logger, url string, timeout time.Duration) {
	addr := url[len("http://"):]
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	logger.Warn("server may not be ready", zap.String("url", url))
}

// findAvailablePort finds an available port, starting from the given port.
// If the port is in use, it tries subsequent ports up to maxAttempts times.
func findAvailablePort(startPort int, maxAttempts int) (int, error) {
	for i := 0; i < maxAttempts; i++ {
		port := startPort + i
		addr := fmt.Sprintf(":%d", port)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port found after %d attempts starting from %d", maxAttempts, startPort)
}
