package material

import (
	"fmt"
	"strings"
)

// Markdown renders the material as a standalone study sheet.
// Sections with no entries are omitted; the title and summary always appear.
func Markdown(m StudyMaterial) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", m.Title)
	if m.VideoURL != "" {
		fmt.Fprintf(&b, "Source: <%s>\n\n", m.VideoURL)
	}

	b.WriteString("## Summary\n\n")
	b.WriteString(m.Summary)
	b.WriteString("\n")

	if len(m.KeyTakeaways) > 0 {
		b.WriteString("\n## Key Takeaways\n\n")
		for _, k := range m.KeyTakeaways {
			fmt.Fprintf(&b, "- %s\n", k)
		}
	}

	if len(m.Notes) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, n := range m.Notes {
			fmt.Fprintf(&b, "- **[%s]** %s\n", n.Timestamp, n.Text)
		}
	}

	if len(m.Quiz) > 0 {
		b.WriteString("\n## Quiz\n")
		for i, q := range m.Quiz {
			fmt.Fprintf(&b, "\n%d. %s\n", i+1, q.Question)
			for _, opt := range q.Options {
				fmt.Fprintf(&b, "   - %s\n", opt)
			}
			fmt.Fprintf(&b, "\n   Answer: **%s**", q.Answer)
			if _, ok := q.AnswerIndex(); !ok && len(q.Options) > 0 {
				b.WriteString(" (no matching option)")
			}
			b.WriteString("\n")
			if q.Explanation != "" {
				fmt.Fprintf(&b, "   %s\n", q.Explanation)
			}
		}
	}

	if len(m.Flashcards) > 0 {
		b.WriteString("\n## Flashcards\n\n")
		b.WriteString("| Front | Back |\n|---|---|\n")
		for _, f := range m.Flashcards {
			fmt.Fprintf(&b, "| %s | %s |\n", escapeCell(f.Front), escapeCell(f.Back))
		}
	}

	return b.String()
}

// escapeCell keeps a value on one table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
