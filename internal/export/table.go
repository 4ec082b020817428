// Package export flattens feedback responses into tables and renders them as
// delimited text, JSON or spreadsheets.
package export

import (
	"sort"
	"strconv"
	"time"

	"QRFeedback/feedback-backend/internal/form/shared"

	"github.com/google/uuid"
)

const (
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
	unknownDate     = "Unknown"
)

type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// Table is a header row followed by data rows. Every row has the header's width.
type Table struct {
	Header []string
	Rows   [][]string
}

// Records returns the header followed by the data rows.
func (t Table) Records() [][]string {
	records := make([][]string, 0, len(t.Rows)+1)
	records = append(records, t.Header)
	return append(records, t.Rows...)
}

// FormTable pivots responses against the form's questions: one row per
// response, one column per question in display order.
func FormTable(questions []shared.Question, responses []shared.Response, answers []shared.Answer, order SortOrder) Table {
	header := []string{"Response ID", "Timestamp", "Overall Rating"}
	for _, q := range questions {
		header = append(header, q.Text)
	}

	byResponse := make(map[uuid.UUID]map[uuid.UUID]shared.Value, len(responses))
	for _, a := range answers {
		if byResponse[a.ResponseID] == nil {
			byResponse[a.ResponseID] = make(map[uuid.UUID]shared.Value)
		}
		byResponse[a.ResponseID][a.QuestionID] = a.Value
	}

	sorted := append([]shared.Response(nil), responses...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if order == Ascending {
			return sorted[i].SubmittedAt.Before(sorted[j].SubmittedAt)
		}
		return sorted[i].SubmittedAt.After(sorted[j].SubmittedAt)
	})

	rows := make([][]string, 0, len(sorted))
	for _, r := range sorted {
		row := make([]string, 0, len(header))
		row = append(row, r.ID.String(), FormatTimestamp(r.SubmittedAt), rating(r.OverallRating))
		values := byResponse[r.ID]
		for _, q := range questions {
			row = append(row, values[q.ID].String())
		}
		rows = append(rows, row)
	}

	return Table{Header: header, Rows: rows}
}

// QuestionTable lists every answer to one question next to the metadata of
// the response it belongs to.
func QuestionTable(question shared.Question, responses []shared.Response, answers []shared.Answer) Table {
	header := []string{"Response ID", "Submission Date", "Response Value"}
	switch question.Type {
	case shared.QuestionTypeRating:
		header = append(header, "Overall Form Rating")
	case shared.QuestionTypeMultipleChoice, shared.QuestionTypeCheckbox:
		header = append(header, "Selected Options")
	}

	byID := make(map[uuid.UUID]shared.Response, len(responses))
	for _, r := range responses {
		byID[r.ID] = r
	}

	rows := make([][]string, 0, len(answers))
	for _, a := range answers {
		response, found := byID[a.ResponseID]

		submitted := unknownDate
		if found {
			submitted = FormatTimestamp(response.SubmittedAt)
		}
		row := []string{a.ResponseID.String(), submitted, a.Value.String()}

		switch question.Type {
		case shared.QuestionTypeRating:
			cell := ""
			if found {
				cell = rating(response.OverallRating)
			}
			row = append(row, cell)
		case shared.QuestionTypeMultipleChoice, shared.QuestionTypeCheckbox:
			cell := ""
			if selections, ok := a.Value.Selections(); ok {
				cell = strconv.Itoa(len(selections))
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}

	return Table{Header: header, Rows: rows}
}

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func rating(r *int) string {
	if r == nil {
		return ""
	}
	return strconv.Itoa(*r)
}
