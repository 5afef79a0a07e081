package cli

import (
	"fmt"
	"path/filepath"

	"github.com/imkarma/herd/internal/board"
	"github.com/imkarma/herd/internal/command"
	"github.com/imkarma/herd/internal/config"
	"github.com/imkarma/herd/internal/logging"
	"go.uber.org/zap"
)

const herdDirName = ".herd"

// herdPath returns the path to a file inside .herd/.
func herdPath(parts ...string) string {
	elems := append([]string{herdDirName}, parts...)
	return filepath.Join(elems...)
}

// runtime is everything a command needs to talk to the board.
type runtime struct {
	cfg    *config.Config
	log    *zap.Logger
	router *command.Router
}

func (r *runtime) close() {
	_ = r.log.Sync()
}

// setup loads the config and wires logger, board client and router.
func setup() (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", configPath, err)
	}

	log, err := logging.New(logging.Options{Level: cfg.Log.Level, Verbose: verbose})
	if err != nil {
		return nil, err
	}

	client := board.New(board.Config{
		BaseURL: cfg.Board.BaseURL,
		BoardID: cfg.Board.ID,
		Key:     cfg.Credentials.Key,
		Token:   cfg.Credentials.Token,
		Timeout: cfg.HTTP.Timeout(),
	}, board.WithLogger(log))

	return &runtime{
		cfg:    cfg,
		log:    log,
		router: command.New(client, log),
	}, nil
}
