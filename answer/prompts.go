package answer

import (
	"fmt"
	"strings"

	"github.com/poiesic/docgraph/ai"
	"github.com/poiesic/docgraph/core"
)

// answerTemperature keeps generation close to the sourced context.
const answerTemperature = 0.1

const systemPrompt = `You are an assistant for a technical document corpus.
Answer the user's question using only the supplied context. If the context
does not contain the answer, say so instead of guessing. Keep answers
precise and reference the documents you used.`

const citationInstruction = `IMPORTANT: end the answer with the sources you used, in the format:
Sources: [comma-separated list of documents with chapters]

Example: Sources: Assembly Manual (chapter 3), Welding Standard (chapter 1)`

// buildMessages constructs the chat messages for the completion service:
// the system message carries the delimited vector context, the optional
// graph section, and the citation-formatting instruction; the user message
// carries the question with the source list.
func buildMessages(question string, assembled *AssembledContext) []ai.Message {
	var system strings.Builder
	system.WriteString(systemPrompt)
	system.WriteString("\n\n<BEGIN VECTOR CONTEXT>\n")
	system.WriteString(assembled.Text)
	system.WriteString("\n<END VECTOR CONTEXT>")
	if assembled.GraphText != "" {
		system.WriteString("\n\n")
		system.WriteString(assembled.GraphText)
	}
	system.WriteString("\n\n")
	system.WriteString(citationInstruction)

	user := question
	if sources := sourceList(assembled.Citations); sources != "" {
		user = fmt.Sprintf("%s\n\nSources for the answer: %s", question, sources)
	}

	return []ai.Message{
		{Role: ai.RoleSystem, Content: system.String()},
		{Role: ai.RoleUser, Content: user},
	}
}

// sourceList formats citations as "document (chapter)" joined by " | ".
func sourceList(citations []core.Citation) string {
	if len(citations) == 0 {
		return ""
	}
	parts := make([]string, len(citations))
	for i, c := range citations {
		parts[i] = fmt.Sprintf("%s (%s)", c.DocumentName, c.Chapter)
	}
	return strings.Join(parts, " | ")
}
