package session

import (
	"strings"

	"github.com/nhollis/docchat/internal/model"
)

// State holds one session's conversation sequences. Four of them are
// windowed after every turn; the full transcript only grows and feeds the
// export.
type State struct {
	// History is the display sequence: questions and decorated answers.
	History []string `json:"history"`
	// Transcript is the simplified "Q:"/"A:" view, windowed.
	Transcript []string `json:"transcript"`
	// Turns is the role-tagged transcript reused in prompts.
	Turns []model.ConversationTurn `json:"turns"`
	// RecentQuestions is the rolling window of raw questions the
	// retrieval query is built from.
	RecentQuestions []string `json:"recent_questions"`
	// FullTranscript is the unwindowed "Q:"/"A:" record for export.
	FullTranscript []string `json:"full_transcript"`
}

func NewState() *State {
	return &State{}
}

// RecordQuestion registers a new question before the pipeline runs, so the
// retrieval query can include it.
func (s *State) RecordQuestion(question string) {
	s.History = append(s.History, question)
	s.RecentQuestions = append(s.RecentQuestions, question)
}

// RecordAnswer appends one completed exchange to every representation.
func (s *State) RecordAnswer(userTurn, assistantTurn model.ConversationTurn, question, answer, display string) {
	s.Turns = append(s.Turns, userTurn, assistantTurn)
	s.Transcript = append(s.Transcript, "Q: "+question, "A: "+answer)
	s.FullTranscript = append(s.FullTranscript, "Q: "+question, "A: "+answer)
	s.History = append(s.History, display)
}

// Truncate bounds the windowed sequences to their trailing windows. The
// full transcript is deliberately left alone.
func (s *State) Truncate(window, questionWindow int) {
	s.History = tail(s.History, window)
	s.Transcript = tail(s.Transcript, window)
	s.Turns = tailTurns(s.Turns, window)
	s.RecentQuestions = tail(s.RecentQuestions, questionWindow)
}

// Reset clears every tracked sequence atomically.
func (s *State) Reset() {
	s.History = nil
	s.Transcript = nil
	s.Turns = nil
	s.RecentQuestions = nil
	s.FullTranscript = nil
}

// QueryText joins the last n recorded questions into the retrieval query.
func (s *State) QueryText(n int) string {
	return strings.Join(tail(s.RecentQuestions, n), " ")
}

// ExportText flattens the full transcript into the downloadable blob.
func (s *State) ExportText() string {
	return strings.Join(s.FullTranscript, "\n")
}

func (s *State) Clone() *State {
	clone := &State{
		History:         append([]string(nil), s.History...),
		Transcript:      append([]string(nil), s.Transcript...),
		Turns:           append([]model.ConversationTurn(nil), s.Turns...),
		RecentQuestions: append([]string(nil), s.RecentQuestions...),
		FullTranscript:  append([]string(nil), s.FullTranscript...),
	}
	return clone
}

func tail(items []string, n int) []string {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}

func tailTurns(items []model.ConversationTurn, n int) []model.ConversationTurn {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}
