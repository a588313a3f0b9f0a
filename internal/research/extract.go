// File: internal/research/extract.go
package research

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

const previewLimit = 500

var (
	fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	toolMarkupRe = regexp.MustCompile(`(?s)<(tool_use|tool_result|search_results?)[^>]*>.*?</(tool_use|tool_result|search_results?)>`)
)

// ExtractObject pulls a JSON object out of free-form model output. Attempts,
// in order: a fenced code block, brace-balance repair of the fenced block,
// the first balanced top-level object anywhere in the text, and repair of the
// text from its first opening brace. The repaired flag reports whether the
// winning candidate needed repair.
func ExtractObject(text string) (raw []byte, repaired bool, err error) {
	s := stripToolMarkup(text)

	if m := fencedJSONRe.FindStringSubmatch(s); m != nil {
		candidate := m[1]
		if json.Valid([]byte(candidate)) {
			return []byte(candidate), false, nil
		}
		if fixed := RepairBraces(candidate); json.Valid([]byte(fixed)) {
			return []byte(fixed), true, nil
		}
	}

	// A fence may be cut off before its closing backticks.
	if idx := strings.Index(s, "```json"); idx >= 0 {
		tail := s[idx+len("```json"):]
		if open := strings.IndexByte(tail, '{'); open >= 0 {
			if fixed := RepairBraces(tail[open:]); json.Valid([]byte(fixed)) {
				return []byte(fixed), true, nil
			}
		}
	}

	if obj, ok := FirstBalancedObject(s); ok {
		return []byte(obj), false, nil
	}

	if open := strings.IndexByte(s, '{'); open >= 0 {
		if fixed := RepairBraces(s[open:]); json.Valid([]byte(fixed)) {
			return []byte(fixed), true, nil
		}
	}

	return nil, false, fmt.Errorf("no JSON object found in %d bytes of text", len(text))
}

// RepairBraces appends the closing characters a truncated JSON fragment is
// missing. It tracks string state so braces inside string literals do not
// count, and closes an unterminated string before appending closers. The
// input is returned unchanged when nothing is open.
func RepairBraces(s string) string {
	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{' || c == '[':
			stack = append(stack, c)
		case c == '}' || c == ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if !inString && len(stack) == 0 {
		return s
	}
	var b strings.Builder
	b.WriteString(s)
	if inString {
		b.WriteByte('"')
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String()
}

// FirstBalancedObject scans for the first top-level {...} substring that is
// both balanced and valid JSON.
func FirstBalancedObject(s string) (string, bool) {
	for start := strings.IndexByte(s, '{'); start >= 0; {
		if end, ok := scanBalanced(s, start); ok {
			candidate := s[start : end+1]
			if json.Valid([]byte(candidate)) {
				return candidate, true
			}
			// Invalid despite balancing; look past this opener.
		}
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start = start + 1 + next
	}
	return "", false
}

// scanBalanced returns the index of the brace closing the object opened at
// start, string-aware.
func scanBalanced(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{' || c == '[':
			depth++
		case c == '}' || c == ']':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// Preview returns a bounded excerpt of raw model output for fallback records
// and logs.
func Preview(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= previewLimit {
		return s
	}
	return s[:previewLimit] + "..."
}

func stripToolMarkup(s string) string {
	return toolMarkupRe.ReplaceAllString(s, "")
}
