package command

import (
	"context"
	"fmt"

	"github.com/ankit071105/Shiksha-Yatra/internal/domain/catalog"
	"github.com/ankit071105/Shiksha-Yatra/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD DOWNLOAD COMMAND
// Bumps a catalog item's download counter. No dedup and no per-account
// tracking: repeated downloads by the same student all count.
// ══════════════════════════════════════════════════════════════════════════════

// RecordDownloadCommand identifies the downloaded item.
type RecordDownloadCommand struct {
	ItemID string
}

// Validate validates the command.
func (c RecordDownloadCommand) Validate() error {
	if c.ItemID == "" {
		return fmt.Errorf("record_download: item_id is required")
	}
	return nil
}

// RecordDownloadHandler handles the RecordDownloadCommand.
type RecordDownloadHandler struct {
	items catalog.Repository
	log   *logger.Logger
}

// NewRecordDownloadHandler creates a new RecordDownloadHandler.
func NewRecordDownloadHandler(items catalog.Repository, log *logger.Logger) *RecordDownloadHandler {
	return &RecordDownloadHandler{items: items, log: log}
}

// Handle increments the download counter.
// Returns catalog.ErrItemNotFound for an unknown item.
func (h *RecordDownloadHandler) Handle(ctx context.Context, cmd RecordDownloadCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := h.items.IncrementDownloads(ctx, cmd.ItemID); err != nil {
		return err
	}

	h.log.Debug("content download recorded", logger.String("item_id", cmd.ItemID))
	return nil
}
