package app

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/dokzlo13/keylight/internal/config"
	"github.com/dokzlo13/keylight/internal/db"
	"github.com/dokzlo13/keylight/internal/ledger"
)

// PrintHistory writes the newest limit ledger entries to w, oldest first.
func PrintHistory(w io.Writer, cfg *config.Config, limit int) error {
	if cfg.History.Path == "" {
		return fmt.Errorf("history is disabled (set history.path)")
	}

	database, err := db.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer database.Close()

	entries, err := ledger.New(database.DB).Recent(limit)
	if err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}

	slices.Reverse(entries)
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %-15s  %s  %s\n",
			e.Timestamp.Local().Format(time.RFC3339),
			e.EventType,
			e.SessionID,
			formatPayload(e.Payload))
	}
	return nil
}

// formatPayload renders a payload as sorted key=value pairs.
func formatPayload(payload map[string]any) string {
	parts := make([]string, 0, len(payload))
	for _, k := range slices.Sorted(maps.Keys(payload)) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, payload[k]))
	}
	return strings.Join(parts, " ")
}
