package ingestion

import (
	"regexp"
	"strings"
)

var (
	innerSpaceRe = regexp.MustCompile(`[ \t\x{00A0}]+`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes page text before salary parsing: unified line endings,
// collapsed inner whitespace, bullet glyphs rewritten to "- ", and at most one
// blank line between paragraphs.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	content = strings.Join(lines, "\n")
	content = blankRunRe.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

func cleanLine(line string) string {
	line = strings.TrimSpace(innerSpaceRe.ReplaceAllString(line, " "))
	for _, bullet := range []string{"• ", "· ", "* ", "▪ "} {
		if strings.HasPrefix(line, bullet) {
			return "- " + strings.TrimPrefix(line, bullet)
		}
	}
	return line
}
