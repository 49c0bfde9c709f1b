package store

import (
	"context"
)

// Seed populates an empty board with a few demo items so the TUI has
// something to drag right after init. Lists that already hold items are left
// alone.
func (s Store) Seed(ctx context.Context, titlesByList map[string][]string) error {
	for listID, titles := range titlesByList {
		existing, err := s.ItemsForList(ctx, listID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			continue
		}
		for _, t := range titles {
			if _, err := s.AddItem(ctx, listID, t); err != nil {
				return err
			}
		}
	}
	return nil
}
