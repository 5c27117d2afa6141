// gridtrackd is the field-operations session daemon: it tracks asset
// telemetry, map annotations and broadcast acknowledgments, syncs with the
// collaborator server, and persists the session on shutdown.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fieldops/gridtrack/internal/alert"
	"github.com/fieldops/gridtrack/internal/annotation"
	"github.com/fieldops/gridtrack/internal/broadcast"
	"github.com/fieldops/gridtrack/internal/config"
	"github.com/fieldops/gridtrack/internal/dispatcher"
	"github.com/fieldops/gridtrack/internal/handlers"
	"github.com/fieldops/gridtrack/internal/influx"
	"github.com/fieldops/gridtrack/internal/logging"
	"github.com/fieldops/gridtrack/internal/monitor"
	"github.com/fieldops/gridtrack/internal/presence"
	"github.com/fieldops/gridtrack/internal/storage"
	gridsync "github.com/fieldops/gridtrack/internal/sync"
	"github.com/fieldops/gridtrack/internal/tracker"
	"github.com/fieldops/gridtrack/internal/trail"
	"github.com/fieldops/gridtrack/internal/transform"
)

// Version and BuildDate can be set at build time via ldflags.
var (
	Version   string = "0.0.1"
	BuildDate string = "unknown"
)

func main() {
	configDir := flag.String("config", ".", "directory containing gridtrack.cfg.json")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("gridtrackd %s (built %s)\n", Version, BuildDate)
		return
	}

	if err := run(*configDir); err != nil {
		fmt.Fprintf(os.Stderr, "gridtrackd: %v\n", err)
		os.Exit(1)
	}
}

func run(configDir string) error {
	sessionStart := time.Now()

	if err := config.Load(configDir); err != nil {
		// defaults still apply without a config file
		fmt.Fprintf(os.Stderr, "gridtrackd: %v, continuing with defaults\n", err)
	}

	logsDir := config.GetString("logsDir")
	logFile, err := logging.OpenLogFile(logsDir, "gridtrack", sessionStart)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gridtrackd: %v, logging to stdout only\n", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	logOpts := logging.Options{
		Level: config.GetString("logLevel"),
		File:  logFile,
	}
	if config.GetBool("graylog.enabled") {
		logOpts.GraylogAddress = config.GetString("graylog.address")
	}
	logger, err := logging.Setup(logOpts)
	if err != nil {
		// a dead graylog endpoint must not stop the session
		fmt.Fprintf(os.Stderr, "gridtrackd: %v, continuing without graylog\n", err)
		logOpts.GraylogAddress = ""
		logger, err = logging.Setup(logOpts)
		if err != nil {
			return err
		}
	}

	logger.Info().
		Str("version", Version).
		Str("buildDate", BuildDate).
		Msg("gridtrackd starting")

	operatorID := config.GetString("operatorId")
	viewportCfg := config.Viewport()

	trails := trail.NewBuffer()
	registry := tracker.NewRegistry(trails, viewportCfg.Width, viewportCfg.Height)
	registry.SetZoomRange(transform.RangeBetween(viewportCfg.ZoomMin, viewportCfg.ZoomMax))
	annotations := annotation.NewStore()
	broadcasts := broadcast.NewStore()
	detector := annotation.NewDetector()

	backend, err := storage.NewBackend(config.Storage(), logger)
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	snap, err := backend.LoadSnapshot()
	if err != nil {
		logger.Warn().Err(err).Msg("could not load previous session, starting fresh")
	} else if !snap.TakenAt.IsZero() {
		restoreSnapshot(snap, registry, trails, annotations, broadcasts)
		logger.Info().
			Time("takenAt", snap.TakenAt).
			Int("assets", len(snap.Assets)).
			Int("annotations", len(snap.Annotations)).
			Int("broadcasts", len(snap.Broadcasts)).
			Msg("previous session restored")
	}

	var influxMgr *influx.Manager
	var perf gridsync.PerfRecorder
	var metrics handlers.TelemetryRecorder
	if config.GetBool("influx.enabled") {
		influxMgr = influx.NewManager(logger, filepath.Join(logsDir, "influx_backup.lp.gz"))
		if err := influxMgr.Connect(); err != nil {
			logger.Warn().Err(err).Msg("metrics disabled")
			influxMgr = nil
		} else {
			perf = influxMgr
			metrics = influxMgr
			defer influxMgr.Close()
		}
	}

	var publisher handlers.PresencePublisher
	presenceCfg := config.Presence()
	if presenceCfg.Enabled {
		mirror, err := presence.New(presenceCfg.Address, presenceCfg.TTL, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("presence mirror disabled")
		} else {
			publisher = mirror
			defer mirror.Close()
		}
	}

	notifier := alert.NewLogNotifier(logger)

	disp, err := dispatcher.New(logging.NewDispatcherLogger(logger))
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}

	syncCfg := config.Sync()
	client := gridsync.NewClient(syncCfg.ServerURL, syncCfg.APIKey)
	poller := gridsync.NewPoller(client, disp, logger, perf)

	svc := handlers.NewService(handlers.Dependencies{
		Tracker:     registry,
		Trails:      trails,
		Annotations: annotations,
		Broadcasts:  broadcasts,
		Detector:    detector,
		Notifier:    notifier,
		Sink:        poller,
		Presence:    publisher,
		Metrics:     metrics,
		Logger:      logger,
	})
	svc.RegisterAll(disp)

	alertCfg := config.Alert()
	scanner := alert.NewScanner(broadcasts, registry, notifier, alertCfg.OverdueAfter, logger)
	scanner.Start(alertCfg.RescanInterval)
	defer scanner.Stop()

	poller.Start(syncCfg.BroadcastInterval, syncCfg.TelemetryInterval)
	defer poller.Stop()

	monitorCfg := config.Monitor()
	statusMonitor := monitor.NewService(monitor.Dependencies{
		Tracker:     registry,
		Annotations: annotations,
		Broadcasts:  broadcasts,
		Sync:        poller,
		StatusDir:   monitorCfg.StatusDir,
		Logger:      logger,
	})
	if err := statusMonitor.Start(monitorCfg.Interval); err != nil {
		logger.Warn().Err(err).Msg("status monitor failed to start")
	}
	defer statusMonitor.Stop()

	logger.Info().Str("operatorId", operatorID).Msg("session running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info().Str("signal", sig.String()).Msg("shutting down")

	// stop the loops before the final snapshot so nothing mutates mid-save
	poller.Stop()
	scanner.Stop()
	statusMonitor.Stop()

	final := captureSnapshot(registry, trails, annotations, broadcasts, operatorID)
	if err := backend.SaveSnapshot(final); err != nil {
		logger.Error().Err(err).Msg("saving final snapshot")
	} else {
		logger.Info().
			Int("assets", len(final.Assets)).
			Int("annotations", len(final.Annotations)).
			Int("broadcasts", len(final.Broadcasts)).
			Msg("session saved")
	}
	if err := backend.Close(); err != nil {
		logger.Error().Err(err).Msg("closing storage backend")
	}
	if exp, ok := backend.(storage.Exportable); ok {
		if path := exp.ExportedFilePath(); path != "" {
			logger.Info().Str("path", path).Msg("session exported")
		}
	}

	logger.Info().Msg("gridtrackd stopped")
	return nil
}
