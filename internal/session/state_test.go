package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhollis/docchat/internal/model"
)

func recordExchange(s *State, question, answer string) {
	s.RecordQuestion(question)
	s.RecordAnswer(
		model.ConversationTurn{Role: model.RoleUser, Content: question},
		model.ConversationTurn{Role: model.RoleAssistant, Content: answer},
		question,
		answer,
		"\n"+answer+"\n",
	)
}

func TestState_TruncateKeepsTrailingWindow(t *testing.T) {
	s := NewState()
	for i := 1; i <= 12; i++ {
		s.Transcript = append(s.Transcript, fmt.Sprintf("item-%d", i))
	}

	s.Truncate(10, 3)

	require.Len(t, s.Transcript, 10)
	require.Equal(t, "item-3", s.Transcript[0])
	require.Equal(t, "item-12", s.Transcript[9])
}

func TestState_TruncateUnderWindowIsNoop(t *testing.T) {
	s := NewState()
	s.Transcript = []string{"a", "b"}
	s.RecentQuestions = []string{"q1", "q2"}

	s.Truncate(10, 3)

	require.Equal(t, []string{"a", "b"}, s.Transcript)
	require.Equal(t, []string{"q1", "q2"}, s.RecentQuestions)
}

func TestState_FullTranscriptSurvivesTruncate(t *testing.T) {
	s := NewState()
	for i := 0; i < 20; i++ {
		recordExchange(s, fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		s.Truncate(10, 3)
	}

	require.Len(t, s.Turns, 10)
	require.Len(t, s.Transcript, 10)
	require.Len(t, s.RecentQuestions, 3)
	require.Len(t, s.FullTranscript, 40)
	require.Equal(t, "Q: q0", s.FullTranscript[0])
	require.Equal(t, "A: a19", s.FullTranscript[39])
}

func TestState_QueryTextJoinsRecentQuestions(t *testing.T) {
	s := NewState()
	for _, q := range []string{"one", "two", "three", "four"} {
		s.RecordQuestion(q)
	}

	require.Equal(t, "two three four", s.QueryText(3))
	require.Equal(t, "one two three four", s.QueryText(10))
}

func TestState_ExportText(t *testing.T) {
	s := NewState()
	recordExchange(s, "a", "b")

	require.Equal(t, "Q: a\nA: b", s.ExportText())

	recordExchange(s, "c", "d")
	require.Equal(t, "Q: a\nA: b\nQ: c\nA: d", s.ExportText())
}

func TestState_ResetClearsEverything(t *testing.T) {
	s := NewState()
	recordExchange(s, "q", "a")

	s.Reset()

	require.Empty(t, s.History)
	require.Empty(t, s.Transcript)
	require.Empty(t, s.Turns)
	require.Empty(t, s.RecentQuestions)
	require.Empty(t, s.FullTranscript)
	require.Equal(t, "", s.ExportText())
}

func TestState_CloneIsIndependent(t *testing.T) {
	s := NewState()
	recordExchange(s, "q", "a")

	clone := s.Clone()
	clone.RecordQuestion("another")

	require.Len(t, s.RecentQuestions, 1)
	require.Len(t, clone.RecentQuestions, 2)
}

func TestState_RecordAnswerShapes(t *testing.T) {
	s := NewState()
	recordExchange(s, "what is it", "it is this")

	require.Equal(t, []string{"Q: what is it", "A: it is this"}, s.Transcript)
	require.Equal(t, model.RoleUser, s.Turns[0].Role)
	require.Equal(t, model.RoleAssistant, s.Turns[1].Role)
	// History holds the raw question plus the decorated answer.
	require.Equal(t, []string{"what is it", "\nit is this\n"}, s.History)
}
