// Package app wires the client together: persistence, backend, workers and
// the terminal interface, with their start and stop order.
package app

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/matheus3301/whatsterm/internal/bus"
	"github.com/matheus3301/whatsterm/internal/config"
	"github.com/matheus3301/whatsterm/internal/lock"
	"github.com/matheus3301/whatsterm/internal/logging"
	"github.com/matheus3301/whatsterm/internal/media"
	"github.com/matheus3301/whatsterm/internal/outbox"
	"github.com/matheus3301/whatsterm/internal/session"
	"github.com/matheus3301/whatsterm/internal/state"
	"github.com/matheus3301/whatsterm/internal/store"
	"github.com/matheus3301/whatsterm/internal/tui"
	"github.com/matheus3301/whatsterm/internal/wa"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Params holds the resolved session configuration passed to the fx module.
type Params struct {
	SessionName string
	// Phone, when set, links the device with a pairing code instead of a QR scan.
	Phone  string
	Config *config.Config
}

// MediaDir returns where attachments are stored for the session.
func (p Params) MediaDir() string {
	return session.ResolveMediaDir(p.SessionName, p.Config)
}

// Module returns the fx module for the client, composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	if p.Config == nil {
		p.Config = config.Default()
	}
	return fx.Module("whatsterm",
		fx.Supply(p),
		fx.Provide(
			provideRing,
			provideLogger,
			provideLock,
			provideStore,
			provideWriter,
			provideState,
			provideBus,
			provideAdapter,
			providePicker,
			provideSender,
			provideDownloader,
			provideDecoder,
			provideUI,
		),
		fx.Invoke(registerLifecycle),
	)
}

// WithLogger routes fx's own events into the session logger.
func WithLogger() fx.Option {
	return fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: logger.Named("fx")}
	})
}

func provideRing() *logging.Ring {
	return logging.NewRing(logging.DefaultRingSize)
}

func provideLogger(lc fx.Lifecycle, p Params, ring *logging.Ring) (*zap.Logger, error) {
	if err := session.EnsureDir(p.SessionName, p.MediaDir()); err != nil {
		return nil, err
	}
	logger, closeFn, err := logging.New(session.LogPath(p.SessionName), p.SessionName, p.Config.LogLevel, ring)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(closeFn))
	return logger, nil
}

func provideLock(lc fx.Lifecycle, p Params, logger *zap.Logger) (*lock.Lock, error) {
	logger.Info("acquiring session lock", zap.String("session", p.SessionName))
	l, err := lock.Acquire(session.LockPath(p.SessionName))
	if err != nil {
		return nil, err
	}
	logger.Info("session lock acquired", zap.String("path", l.Path()))
	lc.Append(fx.StopHook(func() {
		if err := l.Release(); err != nil {
			logger.Warn("error releasing lock", zap.Error(err))
		}
	}))
	return l, nil
}

// provideStore takes the lock so the database is only opened by its owner.
func provideStore(lc fx.Lifecycle, p Params, _ *lock.Lock, logger *zap.Logger) (*store.DB, error) {
	dbPath := session.AppDBPath(p.SessionName)
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", dbPath))
	lc.Append(fx.StopHook(db.Close))
	return db, nil
}

func provideWriter(lc fx.Lifecycle, p Params, db *store.DB, logger *zap.Logger) *store.Writer {
	w := store.NewWriter(db, p.Config.FlushInterval.Duration, logger.Named("store"))
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			w.Start(context.Background())
			return nil
		},
		OnStop: func(context.Context) error {
			w.Stop()
			return nil
		},
	})
	return w
}

func provideState(db *store.DB, w *store.Writer, logger *zap.Logger) (*state.State, error) {
	return loadState(db, w, logger.Named("state"))
}

// loadState builds the model from everything persisted. Later changes go
// through persist.
func loadState(db *store.DB, persist state.Persister, logger *zap.Logger) (*state.State, error) {
	snap, err := db.LoadSnapshot()
	if err != nil {
		return nil, err
	}
	s := state.New(persist, logger)
	s.Load(snap)
	chats, messages := s.Counts()
	logger.Info("state loaded", zap.Int("chats", chats), zap.Int("messages", messages), zap.Int("contacts", len(snap.Contacts)))
	return s, nil
}

func provideBus(lc fx.Lifecycle) *bus.Bus {
	b := bus.New()
	lc.Append(fx.StopHook(b.Close))
	return b
}

func provideAdapter(lc fx.Lifecycle, p Params, logger *zap.Logger) (*wa.Adapter, error) {
	a, err := wa.NewAdapter(context.Background(), session.SessionDBPath(p.SessionName), logger.Named("wa"))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(a.Close))
	return a, nil
}

func providePicker(p Params) *media.Picker {
	kind, ok := media.ParseKind(p.Config.ImageProtocol)
	if !ok {
		kind = media.Detect(os.Getenv)
	}
	return media.NewPicker(kind)
}

func provideSender(lc fx.Lifecycle, adapter *wa.Adapter, b *bus.Bus, logger *zap.Logger) *outbox.Sender {
	s := outbox.NewSender(adapter, b, logger.Named("outbox"))
	lc.Append(workerHook(s.Start, s.Stop))
	return s
}

func provideDownloader(lc fx.Lifecycle, adapter *wa.Adapter, b *bus.Bus, logger *zap.Logger) *media.Downloader {
	d := media.NewDownloader(adapter, func(r media.DownloadResult) {
		b.Publish(bus.DownloadFinished{MessageID: r.MessageID, Path: r.Path, Err: r.Err})
	}, logger.Named("download"))
	lc.Append(workerHook(d.Start, d.Stop))
	return d
}

func provideDecoder(lc fx.Lifecycle, p Params, picker *media.Picker, b *bus.Bus, logger *zap.Logger) *media.Decoder {
	d := media.NewDecoder(picker, p.Config.DecodeWorkers, func(r media.DecodeResult) {
		b.Publish(decodeEvent(r))
	}, logger.Named("decode"))
	lc.Append(workerHook(d.Start, d.Stop))
	return d
}

// decodeEvent maps a decode result to a bus event. A media file that
// vanished from disk is not a broken image: the message goes back to
// DownloadFailed so selecting it downloads the file again.
func decodeEvent(r media.DecodeResult) bus.Event {
	if errors.Is(r.Err, fs.ErrNotExist) {
		return bus.FileStateChanged{MessageID: r.MessageID, State: state.DownloadFailed}
	}
	return bus.PreviewReady{MessageID: r.MessageID, Path: r.Path, Bitmap: r.Bitmap, Err: r.Err}
}

// workerHook runs a background worker for the lifetime of the app.
func workerHook(start func(context.Context), stop func()) fx.Hook {
	return fx.Hook{
		OnStart: func(context.Context) error {
			start(context.Background())
			return nil
		},
		OnStop: func(context.Context) error {
			stop()
			return nil
		},
	}
}

type uiDeps struct {
	fx.In

	Params     Params
	Bus        *bus.Bus
	State      *state.State
	Adapter    *wa.Adapter
	Sender     *outbox.Sender
	Downloader *media.Downloader
	Decoder    *media.Decoder
	Picker     *media.Picker
	Ring       *logging.Ring
	Logger     *zap.Logger
}

func provideUI(d uiDeps) *tui.App {
	return tui.NewApp(tui.Deps{
		Bus:       d.Bus,
		State:     d.State,
		Commands:  d.Sender,
		Downloads: d.Downloader,
		Decodes:   d.Decoder,
		Picker:    d.Picker,
		Logs:      d.Ring,
		Logger:    d.Logger.Named("tui"),
	}, tui.Options{
		Session:  d.Params.SessionName,
		MediaDir: d.Params.MediaDir(),
		Phone:    d.Params.Phone,
		LoggedIn: d.Adapter.IsLoggedIn(),
	})
}

func registerLifecycle(lc fx.Lifecycle, shutdowner fx.Shutdowner, ui *tui.App, adapter *wa.Adapter, b *bus.Bus, logger *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			handler := wa.NewEventHandler(b, logger.Named("events"))
			adapter.AddEventHandler(handler.Handle)

			go func() {
				defer close(done)
				code := 0
				if err := ui.Run(ctx); err != nil {
					logger.Error("terminal interface failed", zap.Error(err))
					code = 1
				}
				if err := shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
					logger.Warn("shutdown request failed", zap.Error(err))
				}
			}()

			go func() {
				err := adapter.Connect(ctx, func(code string) {
					b.Publish(bus.PairingQR{Code: code})
				})
				if err != nil {
					logger.Error("connect failed", zap.Error(err))
					b.Publish(bus.Disconnected{})
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			<-done
			adapter.Disconnect()
			logger.Info("client stopped")
			return nil
		},
	})
}
