package utils

import (
	"strings"
)

var sentenceEnds = []string{"。", "！", "？", ". ", "! ", "? ", "\n"}

// Preview 截取 markdown 文本用于终端展示，不会截断在图片或链接语法中间
func Preview(content string, maxLength int) string {
	content = strings.TrimSpace(content)
	runes := []rune(content)
	if maxLength <= 0 || len(runes) <= maxLength {
		return content
	}

	truncated := string(runes[:maxLength])

	// drop a dangling ![alt](url or [text](url
	if i := strings.LastIndex(truncated, "["); i != -1 && !strings.Contains(truncated[i:], ")") {
		if i > 0 && truncated[i-1] == '!' {
			i--
		}
		truncated = truncated[:i]
	}

	// prefer a sentence boundary in the last third
	cut := -1
	for _, end := range sentenceEnds {
		if i := strings.LastIndex(truncated, end); i != -1 && i+len(end) > cut {
			cut = i + len(end)
		}
	}
	if cut > len(truncated)*2/3 {
		truncated = truncated[:cut]
	}

	return strings.TrimSpace(truncated) + "..."
}
