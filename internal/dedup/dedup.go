// Package dedup merges freshly extracted records into the record store.
package dedup

import (
	"fmt"

	"github.com/devparana/vagasbot/internal/model"
)

// Merge inserts every record whose id the store has not seen, in the order
// given. A repeated id within records is inserted once. Existing records are
// never touched, so merging the same batch twice inserts nothing the second
// time.
func Merge(store model.RecordStore, records []model.JobRecord) (int, error) {
	seen, err := store.ListIDs()
	if err != nil {
		return 0, fmt.Errorf("merging records: %w", err)
	}

	inserted := 0
	for _, rec := range records {
		if _, ok := seen[rec.ID]; ok {
			continue
		}
		if err := store.Insert(rec); err != nil {
			return inserted, fmt.Errorf("merging records: %w", err)
		}
		seen[rec.ID] = struct{}{}
		inserted++
	}
	return inserted, nil
}
