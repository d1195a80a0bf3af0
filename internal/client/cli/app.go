package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/dmitrijs2005/examkeeper/internal/client/client"
	"github.com/dmitrijs2005/examkeeper/internal/client/config"
	"github.com/dmitrijs2005/examkeeper/internal/client/i18n"
	"github.com/dmitrijs2005/examkeeper/internal/client/ledger"
	"github.com/dmitrijs2005/examkeeper/internal/client/picker"
	"github.com/dmitrijs2005/examkeeper/internal/client/services"
	"github.com/dmitrijs2005/examkeeper/internal/client/validator"
	"github.com/dmitrijs2005/examkeeper/internal/filex"
	"github.com/dmitrijs2005/examkeeper/internal/logging"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "mock"
)

type App struct {
	config  *config.Config
	uploads services.UploadService
	client  client.Client
	health  client.Pinger
	closers []io.Closer
	msg     *i18n.Translator
	log     logging.Logger
	in      io.Reader
	out     io.Writer

	mu   sync.RWMutex
	mode Mode
}

// NewApp wires storage, transport and the upload workflow from c.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	dbPath, err := filex.EnsureParentDir(c.DBPath)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, dbPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", dbPath, "error", err)
		return nil, err
	}

	a := &App{config: c, log: log, in: os.Stdin, out: os.Stdout, closers: []io.Closer{db}}

	switch c.Mode {
	case config.ModeAPI:
		a.client = client.NewHTTPClient(client.HTTPOptions{
			BaseURL:       c.APIBaseURL,
			Token:         c.APIToken,
			Timeout:       c.APITimeout,
			RetryAttempts: c.APIRetryAttempts,
		})
		hc, err := client.NewHealthChecker(c.HealthAddr, "")
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.health = hc
		a.closers = append(a.closers, hc)
		a.mode = ModeOffline
	default:
		a.client = client.NewMockClient()
		a.mode = ModeDisabled
	}
	a.closers = append(a.closers, a.client)

	locale := c.Locale
	if locale == "" {
		locale = os.Getenv("LANG")
	}
	a.msg = i18n.New(i18n.Detect(locale))

	var events services.EventSink = services.NoopSink{}
	if c.AnalyticsEnabled {
		events = services.NewLogSink(log, string(a.msg.Locale()))
	}

	fs := picker.NewFSPicker()
	a.uploads = services.NewUploadService(services.UploadDeps{
		Uploader: a.client,
		Ledger:   ledger.New(client.NewRepositories(db).Metadata, log),
		Picker:   fs,
		Stater:   fs,
		Limits:   validator.LimitsFromMegabytes(c.MaxUploadMB),
		Notifier: &consoleNotifier{w: a.out},
		Events:   events,
		Messages: a.msg,
		Log:      log,
	})

	return a, nil
}

func (a *App) getMode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), "connection mode changed", "mode", string(mode))
	}
}

func (a *App) getStatus() string {
	if m := a.getMode(); m != "" {
		return fmt.Sprintf("(%s)", m)
	}
	return ""
}

// Run restores the upload history and serves the REPL until the user exits
// or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(); err != nil {
			a.log.Warn(ctx, "shutdown", "error", err)
		}
	}()

	a.uploads.Activate(ctx)

	if interactive() {
		fmt.Fprintln(a.out, a.msg.T("upload_title"))
		fmt.Fprintln(a.out, a.msg.T("upload_note", i18n.Vars{"max": a.uploads.Limits().MaxMegabytes()}))
		fmt.Fprintln(a.out, "(type 'help' for commands)")
	}

	if a.health != nil {
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.in))
}

// StartOnlineStatusWatcher probes the health endpoint every interval and
// flips the mode between online and offline.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	check := func() {
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := a.health.Ping(pctx)
		cancel()

		if err != nil {
			a.setMode(ModeOffline)
		} else {
			a.setMode(ModeOnline)
		}
	}

	check()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			check()
		case <-ctx.Done():
			return
		}
	}
}

// Close releases the transport, health probe and database.
func (a *App) Close() error {
	var result *multierror.Error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	a.closers = nil
	return result.ErrorOrNil()
}
