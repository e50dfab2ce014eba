package domain

import "time"

// SummaryField is one labeled entry of the answer summary: the question text
// as the label and the derived answer as the value. Fields render expanded
// (non-inline), one per question, in ask order.
type SummaryField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Summary is the structured message posted (and pinned) into the thread after
// the last question is answered.
type Summary struct {
	Fields    []SummaryField `json:"fields"`
	Author    UserRef        `json:"author"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewSummary builds a summary from a completed answer record.
func NewSummary(record *AnswerRecord, author UserRef, at time.Time) Summary {
	s := Summary{Author: author, Timestamp: at}
	for _, qa := range record.Entries() {
		s.Fields = append(s.Fields, SummaryField{Name: qa.Question, Value: qa.Answer})
	}
	return s
}
