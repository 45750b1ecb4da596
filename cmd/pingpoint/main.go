package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/pingpoint/internal/app"
	"github.com/ayusman/pingpoint/internal/capture"
	"github.com/ayusman/pingpoint/internal/config"
	"github.com/ayusman/pingpoint/internal/hook"
	"github.com/ayusman/pingpoint/internal/server"
	"github.com/ayusman/pingpoint/internal/store"
	"github.com/ayusman/pingpoint/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	mode := flag.String("mode", "", "detection mode: ball or gesture (overrides config)")
	withTray := flag.Bool("tray", false, "show the system tray menu")
	replay := flag.String("replay", "", "play back image files from a directory instead of the camera")
	noStart := flag.Bool("no-start", false, "do not start detection on launch")
	flag.Parse()

	fmt.Println("Pingpoint - Table Tennis Point Detection")

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *mode != "" {
		m, err := config.ParseMode(*mode)
		if err != nil {
			log.Fatalf("Invalid -mode: %v", err)
		}
		cfg.Mode = m
	}
	if *withTray {
		cfg.Tray = true
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(cfg.DBPath())
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	hooks := hook.NewManager(cfg.Hooks.Dir)
	if err := hooks.Discover(); err != nil {
		log.Printf("Failed to discover hooks in %s: %v", cfg.Hooks.Dir, err)
	}
	fmt.Printf("Loaded %d hook(s) from %s\n", len(hooks.List()), cfg.Hooks.Dir)

	appCfg := app.Config{Settings: cfg, Store: st}
	if *replay != "" {
		frames, err := loadReplay(*replay)
		if err != nil {
			log.Fatalf("Failed to load replay frames: %v", err)
		}
		defer func() {
			for _, f := range frames {
				f.Close()
			}
		}()
		appCfg.Camera = capture.NewMockCamera(frames, false)
		fmt.Printf("Replaying %d frame(s) from %s\n", len(frames), *replay)
	}

	session, err := app.New(appCfg)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	defer session.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	runner := app.NewHookRunner(hooks, hook.NewExecutor(cfg.HookTimeout()), st.Bindings())
	session.Subscribe(func(p app.Point) { runner.Dispatch(ctx, p) })
	defer runner.Wait()

	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Session:   session,
		Hooks:     hooks,
		Context:   ctx,
	})
	defer srv.Close()

	httpServer := &http.Server{Addr: cfg.Addr, Handler: srv}
	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server failed: %v", err)
			cancel()
		}
	}()

	if !*noStart {
		if err := session.Start(ctx); err != nil {
			log.Printf("Detection not started: %v", err)
		}
	}

	if cfg.Tray {
		runTray(ctx, cancel, session, cfg.Addr)
	} else {
		<-ctx.Done()
	}

	fmt.Println("Shutting down")
	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}

// runTray blocks in the tray event loop until Quit is chosen or ctx ends.
func runTray(ctx context.Context, cancel context.CancelFunc, session *app.Session, addr string) {
	t := tray.New()
	t.OnToggle(session.SetEnabled)
	t.OnSettings(func() {
		fmt.Printf("Settings: http://%s/\n", addr)
	})
	t.OnQuit(cancel)
	unsubscribe := session.Subscribe(t.SetLastPoint)
	defer unsubscribe()

	go func() {
		<-ctx.Done()
		t.Quit()
	}()
	t.Run()
}

func loadConfig(path string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	if err := config.LoadEnv(cfg, ".env", filepath.Join(cfg.DataDir, ".env")); err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadReplay reads every JPEG or PNG in dir, sorted by name.
func loadReplay(dir string) ([]*gocv.Mat, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	frames := make([]*gocv.Mat, 0, len(names))
	for _, name := range names {
		img := gocv.IMRead(filepath.Join(dir, name), gocv.IMReadColor)
		if img.Empty() {
			img.Close()
			continue
		}
		frames = append(frames, &img)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no readable images in %s", dir)
	}
	return frames, nil
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.pingpoint/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".pingpoint", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
