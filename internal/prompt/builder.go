package prompt

import (
	"fmt"

	"github.com/nhollis/docchat/internal/model"
)

// FallbackAnswer is the exact sentence the model is instructed to return
// when the context does not contain the answer. Detection is an exact
// match after trimming, so the wording must never drift.
const FallbackAnswer = "Sorry I don't know the answer to that question."

const systemHeader = `Answer the question based on the context below. If the answer is not contained in the context tags below, answer only 'Sorry I don't know the answer to that question.' and nothing else. Don't mention the context is in your answers. Your answer should be about 50 words and should be expert-level writing.`

// Build composes the ordered message list for the completion call: one
// system message carrying the instruction and the assembled context, the
// retained conversation turns in chronological order, then the new
// question.
func Build(contextText string, turns []model.ConversationTurn, question string) []model.PromptMessage {
	wrapped := fmt.Sprintf("<context> \"\"\"\n%s\"\"\"\n </context>", contextText)
	messages := make([]model.PromptMessage, 0, len(turns)+2)
	messages = append(messages, model.PromptMessage{
		Role:    model.RoleSystem,
		Content: fmt.Sprintf("%s %s", systemHeader, wrapped),
	})
	for _, turn := range turns {
		messages = append(messages, model.PromptMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, model.PromptMessage{
		Role:    model.RoleUser,
		Content: FormatQuestion(question),
	})
	return messages
}

// FormatQuestion wraps the raw question in the template the corpus prompts
// were tuned with.
func FormatQuestion(question string) string {
	return fmt.Sprintf("\n Question: %s \n", question)
}
