// Package textutil normalizes text read out of job pages.
package textutil

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	blankRunRe  = regexp.MustCompile(`\n\n\n+`)
	spaceRunRe  = regexp.MustCompile(`[ \t\f\v\p{Zs}]+`)
	zeroWidthRe = regexp.MustCompile("[\u200b\u200c\u200d\ufeff]")
)

// Clean normalizes page text while keeping its line structure.
// Text is NFC-normalized so Danish letters compare equal however they were encoded.
func Clean(content string) string {
	if content == "" {
		return ""
	}

	content = norm.NFC.String(content)
	content = zeroWidthRe.ReplaceAllString(content, "")

	// CRLF → LF
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}

	result := strings.Join(cleaned, "\n")
	result = blankRunRe.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// CollapseSpaces folds all whitespace, newlines included, into single spaces.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// Lower lowercases NFC-normalized text for keyword matching.
func Lower(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// RuneLen returns the number of characters in the trimmed string.
func RuneLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

func cleanLine(line string) string {
	if strings.TrimSpace(line) == "" {
		return ""
	}
	trimmed := strings.TrimSpace(line)

	// Keep bullet markers readable
	for _, bullet := range []string{"•", "·", "-", "*"} {
		if strings.HasPrefix(trimmed, bullet) && len(trimmed) > len(bullet) {
			rest := strings.TrimSpace(strings.TrimPrefix(trimmed, bullet))
			return bullet + " " + spaceRunRe.ReplaceAllString(rest, " ")
		}
	}
	return spaceRunRe.ReplaceAllString(trimmed, " ")
}
