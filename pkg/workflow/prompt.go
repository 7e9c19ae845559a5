package workflow

import "strings"

const basePrompt = "You are a helpful AI assistant. Answer the user's question based on the provided context."

// BuildPrompt renders the prompt for a generation node. A custom template may
// reference {user_query} and {context}; without one, a fixed default template
// embeds the retrieved context (when present) and the question.
func BuildPrompt(userQuery, retrievedContext, customTemplate string) string {
	if customTemplate != "" {
		prompt := strings.ReplaceAll(customTemplate, "{user_query}", userQuery)

		return strings.ReplaceAll(prompt, "{context}", retrievedContext)
	}

	var builder strings.Builder

	builder.WriteString(basePrompt)
	builder.WriteString("\n\n")

	if retrievedContext != "" {
		builder.WriteString("Context:\n")
		builder.WriteString(retrievedContext)
		builder.WriteString("\n\n")
	}

	builder.WriteString("User Question: ")
	builder.WriteString(userQuery)
	builder.WriteString("\n\nAnswer:")

	return builder.String()
}
