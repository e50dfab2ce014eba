package domain

import (
	"fmt"
	"strings"
)

// NoContentPlaceholder substitutes for a reply that carried no usable text.
const NoContentPlaceholder = "<No Message Content>"

// QA is a single completed question/answer exchange.
type QA struct {
	Question string
	Answer   string
}

// AnswerRecord accumulates answers in ask order. It lives only for the
// duration of one interview and is discarded after the summary is sent.
type AnswerRecord struct {
	entries []QA
}

// Add appends a completed exchange.
func (r *AnswerRecord) Add(question, answer string) {
	r.entries = append(r.entries, QA{Question: question, Answer: answer})
}

// Len returns the number of recorded exchanges.
func (r *AnswerRecord) Len() int {
	return len(r.entries)
}

// Entries returns the exchanges in ask order.
func (r *AnswerRecord) Entries() []QA {
	return r.entries
}

// AnswerText derives the recorded answer from a raw reply. Whitespace-only
// content becomes NoContentPlaceholder; attachments are appended as a
// backtick-quoted "filename: url" list, one per line, whether or not the reply
// had text.
func AnswerText(m Message) string {
	answer := m.Content
	if strings.TrimSpace(answer) == "" {
		answer = NoContentPlaceholder
	}
	if len(m.Attachments) > 0 {
		var b strings.Builder
		b.WriteString(answer)
		b.WriteString("\n")
		for _, a := range m.Attachments {
			fmt.Fprintf(&b, "\n`%s`: %s", a.Filename, a.URL)
		}
		answer = b.String()
	}
	return answer
}
