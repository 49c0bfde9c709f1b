package store

import (
	"context"
	"database/sql"
	"time"

	"sortable-cli/internal/model"
)

// ApplyBatch applies one published change batch to the database: this is the
// persistence workflow the outbound channel is expected to trigger.
//
// Interpretation of records:
//   - newIndex set: the item takes the target list and the new position.
//     Reordered items are always top-level, so any stale attachment clears.
//   - newIndex null ("on" drops): the item attaches onto targetItemUuid and
//     joins the target list; its position is left to the attachment group.
//
// The whole batch applies in one transaction.
func (s Store) ApplyBatch(ctx context.Context, batch model.ChangeBatch) error {
	if len(batch) == 0 {
		return nil
	}
	db, err := s.Open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	nowMs := time.Now().UTC().UnixMilli()
	for _, r := range batch {
		if r.NewIndex == nil {
			if r.DropType != model.ZoneOn || r.TargetItemID == "" {
				continue
			}
			_, err = tx.ExecContext(ctx,
				`UPDATE items SET list_id = ?, parent_item_id = ?, updated_at_unixms = ? WHERE id = ?`,
				r.TargetListID, r.TargetItemID, nowMs, r.ItemID)
		} else {
			_, err = tx.ExecContext(ctx,
				`UPDATE items SET list_id = ?, position = ?, parent_item_id = '', updated_at_unixms = ? WHERE id = ?`,
				r.TargetListID, *r.NewIndex, nowMs, r.ItemID)
		}
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}
