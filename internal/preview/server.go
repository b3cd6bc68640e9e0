package preview

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/sportsdataverse/sdvsite/internal/build"
	derrors "github.com/sportsdataverse/sdvsite/internal/foundation/errors"
	"github.com/sportsdataverse/sdvsite/internal/logfields"
	"github.com/sportsdataverse/sdvsite/internal/metrics"
)

const (
	defaultAddr     = "127.0.0.1:3000"
	defaultDebounce = 300 * time.Millisecond
	shutdownTimeout = 5 * time.Second
)

// BuildFunc runs one build.
type BuildFunc func(ctx context.Context) (*build.Report, error)

// Options configure a preview Server.
type Options struct {
	Addr       string        // listen address, default 127.0.0.1:3000
	BaseURL    string        // path prefix the site is served under, default "/"
	OutputDir  string        // directory holding the built site
	WatchDirs  []string      // rebuilt on any change below these
	WatchFiles []string      // rebuilt when one of these changes (config, .env)
	IgnoreDirs []string      // never trigger rebuilds (the output directory)
	Debounce   time.Duration // quiet window before a rebuild, default 300ms
	Interval   time.Duration // periodic rebuild; 0 disables
	Registry   *prom.Registry
}

// Server serves the output directory and keeps it up to date.
type Server struct {
	opts   Options
	build  BuildFunc
	status buildStatus

	rebuildReq chan struct{}
	mu         sync.Mutex
	timer      *time.Timer
	addr       net.Addr
	ready      chan struct{}
}

// New creates a preview server.
func New(fn BuildFunc, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = defaultAddr
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "/"
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	return &Server{
		opts:       opts,
		build:      fn,
		rebuildReq: make(chan struct{}, 1),
		ready:      make(chan struct{}),
	}
}

// Handler returns the HTTP routes: the site under BaseURL, /health and
// /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", metrics.HTTPHandler(s.opts.Registry))

	files := http.FileServer(http.Dir(s.opts.OutputDir))
	prefix := strings.TrimSuffix(s.opts.BaseURL, "/")
	mux.Handle(s.opts.BaseURL, http.StripPrefix(prefix, files))
	if s.opts.BaseURL != "/" {
		mux.Handle("/", http.RedirectHandler(s.opts.BaseURL, http.StatusFound))
	}
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp, ok := s.status.health()
	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// Ready is closed once the listener is bound and the initial build has run.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Addr returns the bound listen address; valid after Ready.
func (s *Server) Addr() net.Addr { return s.addr }

// Run performs an initial build, serves until ctx is done and then shuts
// down gracefully. A failing initial build is reported through /health and
// does not stop the server.
func (s *Server) Run(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryNetwork, "failed to bind preview server").
			WithContext("addr", s.opts.Addr).
			Build()
	}
	s.addr = ln.Addr()

	s.rebuild(ctx)

	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Preview server error", logfields.Error(err))
		}
	}()
	slog.Info("Preview server listening", logfields.URL("http://"+s.addr.String()+s.opts.BaseURL))

	watcher, err := newSourceWatcher(s.opts.WatchDirs, s.opts.WatchFiles, s.opts.IgnoreDirs)
	if err != nil {
		_ = srv.Close()
		return derrors.WrapError(err, derrors.CategoryRuntime, "failed to start file watcher").Build()
	}
	defer func() { _ = watcher.Close() }()

	scheduler, err := s.startScheduler()
	if err != nil {
		_ = srv.Close()
		return err
	}

	var workers sync.WaitGroup
	workers.Add(1)
	go func() {
		defer workers.Done()
		s.rebuildWorker(ctx)
	}()
	close(s.ready)

	for {
		select {
		case <-ctx.Done():
			return s.shutdown(srv, scheduler, &workers)
		case ev, ok := <-watcher.w.Events:
			if !ok {
				return s.shutdown(srv, scheduler, &workers)
			}
			if watcher.relevant(ev) {
				slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
				s.trigger()
			}
		case err, ok := <-watcher.w.Errors:
			if !ok {
				return s.shutdown(srv, scheduler, &workers)
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (s *Server) startScheduler() (gocron.Scheduler, error) {
	if s.opts.Interval <= 0 {
		return nil, nil
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryRuntime, "failed to create scheduler").Build()
	}
	_, err = sched.NewJob(
		gocron.DurationJob(s.opts.Interval),
		gocron.NewTask(s.requestRebuild),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, derrors.WrapError(err, derrors.CategoryRuntime, "failed to schedule periodic rebuild").Build()
	}
	sched.Start()
	slog.Info("Periodic rebuild scheduled", slog.Duration("interval", s.opts.Interval))
	return sched, nil
}

// trigger requests a rebuild after the debounce window; calls inside the
// window restart it.
func (s *Server) trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.opts.Debounce, s.requestRebuild)
}

// requestRebuild queues a rebuild. At most one request is pending; a
// request made while a build runs produces exactly one follow-up build.
func (s *Server) requestRebuild() {
	select {
	case s.rebuildReq <- struct{}{}:
	default:
	}
}

func (s *Server) rebuildWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.rebuildReq:
			slog.Info("Change detected; rebuilding site")
			s.rebuild(ctx)
		}
	}
}

func (s *Server) rebuild(ctx context.Context) {
	report, err := s.build(ctx)
	s.status.record(report, err)
	if err != nil {
		slog.Warn("Rebuild failed", logfields.Error(err))
	}
}

func (s *Server) shutdown(srv *http.Server, scheduler gocron.Scheduler, workers *sync.WaitGroup) error {
	slog.Info("Shutting down preview server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	var errs []error
	if scheduler != nil {
		if err := scheduler.Shutdown(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	workers.Wait()
	if len(errs) > 0 {
		return derrors.WrapError(errors.Join(errs...), derrors.CategoryRuntime, "preview shutdown").Build()
	}
	return nil
}
