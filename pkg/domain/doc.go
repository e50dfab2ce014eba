// Package domain contains the core value types shared by every layer:
// messages and their senders, threads, questionnaire configuration, and the
// answer records built up during an interview.
//
// Everything here is a plain value. Adapters translate these to and from wire
// payloads; the interview logic never sees anything else.
package domain
