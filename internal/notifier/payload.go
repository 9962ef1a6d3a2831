package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/devparana/vagasbot/internal/model"
)

const (
	headerText  = "Vaga de trabalho encontrada. Confira! \n\n"
	accentColor = "#7CD197"
	dateLayout  = "02/01/2006"
)

// Payload is a Slack incoming-webhook message with legacy attachments.
type Payload struct {
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments"`
}

// Attachment is a single Slack message attachment.
type Attachment struct {
	Title     string `json:"title"`
	TitleLink string `json:"title_link"`
	Text      string `json:"text"`
	Color     string `json:"color"`
}

// BuildPayload renders the announcement for one job record.
func BuildPayload(r model.JobRecord) Payload {
	return Payload{
		Text: headerText + r.URL,
		Attachments: []Attachment{
			{
				Title:     r.Title + " - " + r.City,
				TitleLink: r.URL,
				Text: fmt.Sprintf("Vaga: %s\nData: %s\nDetalhes: %s",
					r.Title, formatDate(r.Date), strings.Join(r.Labels, ", ")),
				Color: accentColor,
			},
		},
	}
}

func formatDate(unix int64) string {
	return time.Unix(unix, 0).Format(dateLayout)
}
