package store

import (
	"slices"
	"sort"
	"time"

	"github.com/devparana/vagasbot/internal/model"
)

// pendingNewestFirst keeps unprocessed records and orders them by Date
// ascending, then reverses, so the newest posting comes first and ties come
// out in reverse insertion order.
func pendingNewestFirst(records []model.JobRecord) []model.JobRecord {
	var pending []model.JobRecord
	for _, r := range records {
		if !r.BotProcessed {
			pending = append(pending, cloneRecord(r))
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].Date < pending[j].Date
	})
	slices.Reverse(pending)
	return pending
}

func cloneRecord(r model.JobRecord) model.JobRecord {
	r.Labels = slices.Clone(r.Labels)
	if r.BotProcessedDate != nil {
		d := *r.BotProcessedDate
		r.BotProcessedDate = &d
	}
	return r
}

// markProcessed flips the processed flag once; later calls keep the first date.
func markProcessed(r *model.JobRecord, at time.Time) bool {
	if r.BotProcessed {
		return false
	}
	ts := at.Unix()
	r.BotProcessed = true
	r.BotProcessedDate = &ts
	return true
}
