package prompts

import "fmt"

// DefaultDialect is used when a submission does not name a target dialect.
const DefaultDialect = "Standard English"

// reformatTemplate is the fixed instruction template for content
// reformatting. Platform-specific guidance is encoded as conditional
// clauses in the prompt text itself, and the Pidgin clause triggers on the
// dialect literal, so the template stays a single block regardless of the
// requested platform.
const reformatTemplate = `You are Lingo, the universal content bridge.
Transform the following content for %s.
Target Dialect: %s.

Guidelines:
- If platform is TikTok: Use slang, high energy, short sentences, and relevant hashtags.
- If platform is LinkedIn: Keep it professional but engaging, use bullet points, and industry-relevant tone.
- If platform is X: Be concise, witty, and use a thread format if the content is long.
- If targetDialect is Pidgin: Use authentic Lagos Pidgin English.

Original Content:
"%s"

Return ONLY the reformatted content.`

// BuildReformatPrompt renders the reformatting instruction for one platform.
// Parameters:
//   - content: source content to transform.
//   - platform: target platform name embedded in the instruction.
//   - dialect: target dialect; empty uses DefaultDialect.
// Returns:
//   - string: complete prompt text.
func BuildReformatPrompt(content, platform, dialect string) string {
	if dialect == "" {
		dialect = DefaultDialect
	}
	return fmt.Sprintf(reformatTemplate, platform, dialect, content)
}
