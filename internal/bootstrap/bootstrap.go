// Package bootstrap wires the configured adapters behind the front-ends.
package bootstrap

import (
	"errors"
	"fmt"
	"io"

	"bite/internal/adapters/execsupplier"
	"bite/internal/adapters/filesystem"
	"bite/internal/adapters/scanner"
	"bite/internal/adapters/sqlite"
	"bite/internal/adapters/tagfile"
	"bite/internal/application"
	"bite/internal/config"
	"bite/internal/logging"
	"bite/internal/ports"
)

// ErrNoSupplier is returned when bite.yaml configures no tag supplier
var ErrNoSupplier = errors.New("no tag supplier configured: set supplier.command or supplier.dump in " + config.FileName)

// Env holds everything a front-end needs for one data directory
type Env struct {
	DataDir string
	Config  *config.Config
	Log     *logging.Logger
	Repo    *filesystem.Repository
	Session *application.Session

	logFile io.Closer
}

// Open loads the configuration, opens the log file and loads the database
func Open(dataDir string) (*Env, error) {
	dataDir = config.ExpandHome(dataDir)

	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, err
	}

	repo := filesystem.NewRepository(dataDir)
	if err := repo.Init(); err != nil {
		return nil, err
	}

	log, logFile, err := logging.Open(cfg.LogPath())
	if err != nil {
		return nil, err
	}

	session, err := application.OpenSession(repo, log)
	if err != nil {
		logFile.Close()
		return nil, err
	}

	return &Env{
		DataDir: dataDir,
		Config:  cfg,
		Log:     log,
		Repo:    repo,
		Session: session,
		logFile: logFile,
	}, nil
}

// Close closes the log file
func (e *Env) Close() error {
	if e.logFile == nil {
		return nil
	}
	return e.logFile.Close()
}

// Scanner returns an image scanner for the configured extensions
func (e *Env) Scanner() *scanner.Scanner {
	return scanner.New(e.Config.ImageExtensions...)
}

// Supplier returns the configured external tag supplier
func (e *Env) Supplier() (ports.TagSupplier, error) {
	if path := e.Config.DumpPath(); path != "" {
		return tagfile.Open(path)
	}
	if len(e.Config.Supplier.Command) == 0 {
		return nil, ErrNoSupplier
	}

	var opts []execsupplier.Option
	if delay, ok := e.Config.SupplierDelay(); ok {
		opts = append(opts, execsupplier.WithDelay(delay))
	}
	s, err := execsupplier.New(e.Config.Supplier.Command, opts...)
	if err != nil {
		return nil, err
	}
	if !s.IsAvailable() {
		return nil, fmt.Errorf("supplier command not found: %s", e.Config.Supplier.Command[0])
	}
	return s, nil
}

// OpenIndex opens the query index of the data directory. The caller closes it.
func (e *Env) OpenIndex() (*sqlite.Index, error) {
	idx := sqlite.NewIndex()
	if err := idx.Open(e.DataDir); err != nil {
		return nil, err
	}
	return idx, nil
}
