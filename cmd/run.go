package main

import (
	"os"
	"os/signal"
	"syscall"

	"cydwatch/internal/core/model"
	"cydwatch/internal/core/stopwatch"
	"cydwatch/internal/logging"
	"cydwatch/internal/platform"
	"cydwatch/internal/storage"
	"cydwatch/internal/web"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	modeDesktop = "desktop"
	modeDevice  = "device"
)

type runOptions struct {
	mode       string
	configPath string
	logLevel   string
	web        bool
	webAddr    string
}

// session is what both run modes share: the resolved config, the logger
// and the stopwatch itself.
type session struct {
	fs         afero.Fs
	configPath string
	config     model.Config
	logger     *logrus.Logger
	watch      *stopwatch.Stopwatch
}

func newRunCmd() *cobra.Command {
	opts := runOptions{mode: modeDesktop}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the stopwatch",
		Long: `Run the stopwatch. In desktop mode it opens a window and a tray icon; in
device mode it drives the touch panel, display, LED and light sensor through periph.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := openSession(afero.NewOsFs(), opts, cmd.Flags())
			if err != nil {
				return err
			}

			guard, err := platform.AcquireSingleInstance(appName + "-" + opts.mode)
			if err != nil {
				return err
			}
			defer func() {
				_ = guard.Release()
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			switch opts.mode {
			case modeDesktop:
				return runDesktop(ctx, current)
			case modeDevice:
				return runDevice(ctx, current)
			default:
				return errors.Errorf("unknown mode %q, expected %s or %s", opts.mode, modeDesktop, modeDevice)
			}
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", opts.mode, "Run mode: desktop or device")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default is <user config dir>/cydwatch/config.yaml)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level, overrides the config file")
	cmd.Flags().BoolVar(&opts.web, "web", false, "Enable the web monitor, overrides the config file")
	cmd.Flags().StringVar(&opts.webAddr, "web-addr", "", "Web monitor listen address, overrides the config file")
	return cmd
}

// openSession resolves the config file and flag overrides and creates the
// logger and the stopwatch.
func openSession(fs afero.Fs, opts runOptions, flags *pflag.FlagSet) (*session, error) {
	path := opts.configPath
	if path == "" {
		defaultPath, err := storage.DefaultPath(appName)
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	config, err := storage.LoadConfig(fs, path)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		config.LogLevel = opts.logLevel
	}
	if flags != nil && flags.Changed("web") {
		config.Web.Enabled = opts.web
	}
	if opts.webAddr != "" {
		config.Web.Addr = opts.webAddr
	}

	logger, err := logging.CreateLogger(config.LogLevel, os.Stderr)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"config": path,
		"mode":   opts.mode,
	}).Debug("configuration loaded")

	return &session{
		fs:         fs,
		configPath: path,
		config:     config,
		logger:     logger,
		watch:      stopwatch.New(nil),
	}, nil
}

func (current *session) log(component string) *logrus.Entry {
	return current.logger.WithField("component", component)
}

// webServer returns the remote monitor, or nil when it is disabled.
func (current *session) webServer() *web.Server {
	if !current.config.Web.Enabled {
		return nil
	}
	return web.New(web.Options{
		Stopwatch:    current.watch,
		Addr:         current.config.Web.Addr,
		PushInterval: current.config.Web.PushInterval,
		Log:          current.log("web"),
	})
}

// saveConfig persists config and makes it current.
func (current *session) saveConfig(config model.Config) error {
	if err := storage.SaveConfig(current.fs, current.configPath, config); err != nil {
		return err
	}
	current.config = config
	current.log("storage").WithField("path", current.configPath).Info("settings saved")
	return nil
}
