package bootstrap

import (
	"context"

	"github.com/charmbracelet/log"

	"netfence/internal/blocklist"
	"netfence/internal/config"
	"netfence/internal/database"
)

// Setup brings the process into a serving state: settings, optional
// database mirror, the in-memory range set, and the refresh routine.
func Setup() error {
	config.ReadSettings()

	if database.Enabled() {
		if _, err := database.SetupDB(); err != nil {
			log.Error("Database mirror unavailable, continuing with file store only", "error", err)
		}
	} else {
		log.Debug("DB_HOST not set, database mirror disabled")
	}

	ctx := context.Background()
	if err := blocklist.Initialize(ctx); err != nil {
		return err
	}

	go blocklist.StartRefreshRoutine(ctx)

	return nil
}
