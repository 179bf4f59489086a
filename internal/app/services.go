package app

import (
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/keylight/internal/config"
	"github.com/dokzlo13/keylight/internal/db"
	"github.com/dokzlo13/keylight/internal/device"
	"github.com/dokzlo13/keylight/internal/keymap"
	"github.com/dokzlo13/keylight/internal/ledger"
)

// Services is a container for everything a session needs before the
// terminal is opened.
type Services struct {
	cfg *config.Config

	// Core infrastructure (nil when history is disabled)
	DB     *db.DB
	Ledger *ledger.Ledger

	Device *device.Client
	Keymap *keymap.Keymap
}

// NewServices creates all services with proper dependency injection.
func NewServices(cfg *config.Config) (*Services, error) {
	s := &Services{cfg: cfg}

	// Key bindings, optionally extended by a Lua script
	s.Keymap = keymap.Default(cfg.Control.Step, cfg.Control.FineStep)
	if cfg.Keymap.Script != "" {
		if err := keymap.LoadScript(s.Keymap, cfg.Keymap.Script); err != nil {
			return nil, err
		}
	}

	// Initialize database and ledger
	if cfg.History.Path != "" {
		database, err := db.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		s.DB = database
		s.Ledger = ledger.New(database.DB)
		log.Info().Str("path", cfg.History.Path).Msg("Sync ledger enabled")

		s.cleanupLedger()
	}

	s.Device = device.NewClient(cfg.Device.Address, device.Options{
		Port:         cfg.Device.Port,
		FetchTimeout: cfg.Device.FetchTimeout.Duration(),
		PushTimeout:  cfg.Device.PushTimeout.Duration(),
	})

	return s, nil
}

// cleanupLedger drops entries past the retention period. Failures are logged
// and ignored.
func (s *Services) cleanupLedger() {
	retention := s.cfg.History.Retention.Duration()

	deleted, err := s.Ledger.DeleteOlderThan(retention)
	if err != nil {
		log.Error().Err(err).Msg("Failed to cleanup old ledger entries")
	} else if deleted > 0 {
		log.Info().Int64("deleted", deleted).Dur("retention", retention).Msg("Cleaned up old ledger entries")
	}
}

// Close releases all resources.
func (s *Services) Close() {
	if s.Device != nil {
		s.Device.Close()
	}
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}
}
