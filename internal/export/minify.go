package export

import (
	"regexp"
	"strings"
)

var horizontalRule = regexp.MustCompile(`^-{3,}$`)

// minifyMarkdown removes blank lines, HTML comments, and horizontal
// rules, and trims trailing whitespace, while leaving the contents of
// fenced code blocks byte-identical. A two-space hard line break at the
// end of a line survives; three or more trailing spaces do not.
func minifyMarkdown(content string) string {
	hadTrailingNewline := strings.HasSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	output := make([]string, 0, len(lines))

	inFence := false
	var fenceChar byte
	inComment := false

	for _, line := range lines {
		if inFence {
			output = append(output, line)
			if closesFence(line, fenceChar) {
				inFence = false
			}
			continue
		}

		if c, ok := startsFence(line); ok {
			inFence = true
			fenceChar = c
			output = append(output, line)
			continue
		}

		var stripped string
		stripped, inComment = stripHTMLComments(line, inComment)

		normalized := stripped
		if !(strings.HasSuffix(stripped, "  ") && !strings.HasSuffix(stripped, "   ")) {
			normalized = strings.TrimRight(stripped, " \t")
		}

		trimmed := strings.TrimSpace(normalized)
		if trimmed == "" {
			continue
		}
		if horizontalRule.MatchString(trimmed) {
			continue
		}

		output = append(output, normalized)
	}

	minified := strings.Join(output, "\n")
	if hadTrailingNewline && minified != "" {
		minified += "\n"
	}
	return minified
}

// startsFence reports whether the line opens a fenced code block and
// which fence character it uses.
func startsFence(line string) (byte, bool) {
	stripped := strings.TrimLeft(line, " ")
	if strings.HasPrefix(stripped, "```") {
		return '`', true
	}
	if strings.HasPrefix(stripped, "~~~") {
		return '~', true
	}
	return 0, false
}

// closesFence reports whether the line closes a fence opened with
// fenceChar.
func closesFence(line string, fenceChar byte) bool {
	stripped := strings.TrimLeft(line, " ")
	if fenceChar == '`' {
		return strings.HasPrefix(stripped, "```")
	}
	return strings.HasPrefix(stripped, "~~~")
}

// stripHTMLComments removes HTML comment spans from a line, tracking
// comments that continue across lines.
func stripHTMLComments(line string, inComment bool) (string, bool) {
	var out strings.Builder
	index := 0

	for index < len(line) {
		if inComment {
			end := strings.Index(line[index:], "-->")
			if end == -1 {
				return out.String(), true
			}
			index += end + len("-->")
			inComment = false
			continue
		}

		start := strings.Index(line[index:], "<!--")
		if start == -1 {
			out.WriteString(line[index:])
			break
		}

		out.WriteString(line[index : index+start])
		index += start + len("<!--")
		inComment = true
	}

	return out.String(), inComment
}
