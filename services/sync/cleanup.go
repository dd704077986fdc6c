package sync

import (
	"context"
	"time"

	"bookastay/models"
	"bookastay/utils"

	"go.uber.org/zap"
)

// CleanupPast removes externally synced rows whose stay has fully elapsed.
// Only feed-originated rows are touched; website and admin reservations are
// kept as history.
func (r *Reconciler) CleanupPast(ctx context.Context) (int64, error) {
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	today := now.Format(models.DateLayout)

	deleted, err := r.Repo.DeletePastSynced(ctx, models.SourceAirbnb, today)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		utils.GetLogger().Info("purged past synced reservations",
			zap.Int64("deleted", deleted),
			zap.String("before", today))
	}
	return deleted, nil
}
