package browse

import "github.com/devparana/vagasbot/internal/model"

// StoredPanes splits stored records into pending and delivered panes.
func StoredPanes(records []model.JobRecord) (Pane, Pane) {
	pending := Pane{Title: "Pending"}
	delivered := Pane{Title: "Delivered"}
	for _, r := range records {
		if r.BotProcessed {
			delivered.Records = append(delivered.Records, r)
		} else {
			pending.Records = append(pending.Records, r)
		}
	}
	return pending, delivered
}

// LivePanes pairs everything extracted from the listing page with the
// subset whose ids are not stored yet, i.e. what the next run would insert.
func LivePanes(extracted []model.JobRecord, storedIDs map[string]struct{}) (Pane, Pane) {
	all := Pane{Title: "On Page", Records: extracted}
	fresh := Pane{Title: "Not Stored"}
	for _, r := range extracted {
		if _, ok := storedIDs[r.ID]; !ok {
			fresh.Records = append(fresh.Records, r)
		}
	}
	return all, fresh
}
