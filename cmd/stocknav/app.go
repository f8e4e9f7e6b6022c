package main

import (
	stderrors "errors"
	"io"
	"io/fs"
	"log/slog"

	"github.com/vango-dev/stocknav/internal/config"
	"github.com/vango-dev/stocknav/internal/errors"
	"github.com/vango-dev/stocknav/pkg/router"
	"github.com/vango-dev/stocknav/pkg/stockroutes"
)

// app is what every subcommand starts from.
type app struct {
	cfg      *config.Config
	resolver *router.Resolver
	logger   *slog.Logger
}

// loadApp reads configuration, applies global and command flags, and
// builds the resolver. Log output goes to logOut.
func loadApp(g *globalFlags, flags *config.Config, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(g.configDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}

	if flags == nil {
		flags = &config.Config{}
	}
	flags.Router.HistoryMode = g.history
	flags.Router.BasePath = g.base
	flags.Router.RoutesFile = g.routesFile
	flags.Logging.Level = g.logLevel
	flags.Logging.Format = g.logFormat
	if err := cfg.Override(flags); err != nil {
		return nil, err
	}

	resolver, err := buildResolver(&cfg.Router)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		resolver: resolver,
		logger:   cfg.Logging.NewLogger(logOut),
	}, nil
}

// buildResolver returns the built-in stock table, or the table declared in
// the configured routes file. The configured history mode and base path
// win over the ones in the file.
func buildResolver(rc *config.RouterConfig) (*router.Resolver, error) {
	opts := []router.ResolverOption{
		router.WithHistoryMode(rc.Mode()),
		router.WithBase(rc.BasePath),
	}
	if rc.RoutesFile == "" {
		return stockroutes.NewResolver(opts...), nil
	}

	file, err := router.LoadDeclarations(rc.RoutesFile)
	if err != nil {
		var pathErr *fs.PathError
		if stderrors.As(err, &pathErr) {
			return nil, errors.New("E210").Wrap(err)
		}
		return nil, errors.New("E211").Wrap(err).WithLocationFromYAML(rc.RoutesFile, err)
	}

	resolver, err := file.Resolver(stockroutes.Registry(), opts...)
	if err != nil {
		if stderrors.Is(err, router.ErrUnknownComponent) {
			return nil, errors.New("E212").Wrap(err)
		}
		if stderrors.Is(err, router.ErrUnknownHistoryMode) {
			return nil, errors.New("E103").Wrap(err).WithDetail("history in " + rc.RoutesFile + ".")
		}
		return nil, err
	}
	return resolver, nil
}
