package command

import (
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/driima/chat/internal/api"
	"github.com/driima/chat/internal/config"
	"github.com/driima/chat/internal/db"
	"github.com/driima/chat/internal/i18n"
	"github.com/driima/chat/internal/logger"
)

// CommandContext provides shared command resources.
type CommandContext struct {
	Config     config.Config
	DB         *sql.DB
	State      *db.State
	Client     *api.Client
	Translator *i18n.Printer
	JSONMode   bool

	logFile io.Closer
}

// loadConfig reads the config file, then applies -c overrides and flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	overrides, _ := cmd.Flags().GetStringArray("set")
	cfg, err = config.ApplyKVOverrides(cfg, overrides)
	if err != nil {
		return cfg, err
	}
	if server, _ := cmd.Flags().GetString("server"); strings.TrimSpace(server) != "" {
		if err := cfg.Set("server", server); err != nil {
			return cfg, err
		}
	}
	if lang, _ := cmd.Flags().GetString("lang"); strings.TrimSpace(lang) != "" {
		if err := cfg.Set("language", lang); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// configureLogging points the shared logger at the log file. Without one,
// logs are discarded so they never mix with command output.
func configureLogging(cmd *cobra.Command, cfg config.Config) io.Closer {
	debug, _ := cmd.Flags().GetBool("debug")
	logger.Configure(debug)
	if cfg.LogFile == "" {
		logger.Discard()
		return nil
	}
	closer, err := logger.SetupFile(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: logging disabled: %v\n", err)
		logger.Discard()
		return nil
	}
	return closer
}

// GetContext resolves config, the local database and the API client.
func GetContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	jsonMode, _ := cmd.Flags().GetBool("json")
	logFile := configureLogging(cmd, cfg)

	conn, err := db.Open(cfg.Database)
	if err != nil {
		releaseLog(logFile)
		return nil, fmt.Errorf("open local state: %w", err)
	}
	state := db.NewState(conn)
	translator := i18n.New(cfg.Language)

	client, err := api.NewClient(cmd.Context(), cfg.Server,
		api.WithCookieStore(state),
		api.WithLanguage(translator.Code()),
	)
	if err != nil {
		_ = conn.Close()
		releaseLog(logFile)
		return nil, err
	}

	logger.Named("command").
		WithField("command", cmd.Name()).
		WithField("server", client.BaseURL()).
		WithField("language", translator.Code()).
		WithField("signed_in", client.Authenticated()).
		Debug("context ready")
	return &CommandContext{
		Config:     cfg,
		DB:         conn,
		State:      state,
		Client:     client,
		Translator: translator,
		JSONMode:   jsonMode,
		logFile:    logFile,
	}, nil
}

// Close releases the database and the log file.
func (c *CommandContext) Close() {
	if c.DB != nil {
		_ = c.DB.Close()
	}
	releaseLog(c.logFile)
}

// releaseLog detaches the shared logger from the file before closing it.
func releaseLog(closer io.Closer) {
	if closer == nil {
		return
	}
	logger.Discard()
	_ = closer.Close()
}
