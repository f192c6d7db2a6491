package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhollis/docchat/internal/model"
)

func TestBuild_MessageOrder(t *testing.T) {
	turns := []model.ConversationTurn{
		{Role: model.RoleUser, Content: "\n Question: earlier \n"},
		{Role: model.RoleAssistant, Content: "earlier answer"},
	}

	messages := Build("\n* some context", turns, "what now?")

	require.Len(t, messages, 4)
	require.Equal(t, model.RoleSystem, messages[0].Role)
	require.Equal(t, model.RoleUser, messages[1].Role)
	require.Equal(t, model.RoleAssistant, messages[2].Role)
	require.Equal(t, model.RoleUser, messages[3].Role)
	require.Equal(t, "\n Question: what now? \n", messages[3].Content)
}

func TestBuild_SystemMessageWrapsContext(t *testing.T) {
	messages := Build("\n* body text", nil, "q")

	system := messages[0].Content
	require.Contains(t, system, "Answer the question based on the context below.")
	require.Contains(t, system, FallbackAnswer)
	require.Contains(t, system, "<context> \"\"\"\n\n* body text\"\"\"\n </context>")
}

func TestBuild_EmptyContextStillWrapped(t *testing.T) {
	messages := Build("", nil, "q")

	require.Len(t, messages, 2)
	require.True(t, strings.Contains(messages[0].Content, "<context> \"\"\"\n\"\"\"\n </context>"))
}

func TestFormatQuestion(t *testing.T) {
	require.Equal(t, "\n Question: why? \n", FormatQuestion("why?"))
}
