package answer

import (
	"fmt"

	"github.com/tmc/langchaingo/prompts"
)

const (
	slotContext  = "context"
	slotQuestion = "question"
)

// promptTemplate is the only template the pipeline renders.
const promptTemplate = `Answer the question based on the following context:
Context: {{.context}}

Question: {{.question}}

Answer:`

var answerPrompt = prompts.NewPromptTemplate(promptTemplate, []string{slotContext, slotQuestion})

// FormatPrompt fills the context and question slots verbatim.
func FormatPrompt(context, question string) (string, error) {
	out, err := answerPrompt.Format(map[string]any{
		slotContext:  context,
		slotQuestion: question,
	})
	if err != nil {
		return "", fmt.Errorf("format prompt: %w", err)
	}
	return out, nil
}
