package store

import (
	"context"

	"sortable-cli/internal/model"
)

// BatchSink adapts the store into the engine's outbound change channel: each
// published batch is journaled and then applied, which is the "host reacts to
// the write by running the persistence workflow" half of the round-trip
// contract. The engine side never waits on it.
type BatchSink struct {
	Store Store
}

func (b BatchSink) Publish(batch model.ChangeBatch) error {
	if len(batch) == 0 {
		return nil
	}
	if _, err := b.Store.AppendJournal(batch); err != nil {
		return err
	}
	return b.Store.ApplyBatch(context.Background(), batch)
}
