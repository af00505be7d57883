package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoStructure indicates the text contained no JSON object or array.
var ErrNoStructure = errors.New("no JSON structure found in response")

// MalformedError indicates a JSON candidate was located but failed to parse.
type MalformedError struct {
	Snippet string
	err     error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed JSON in response: %v", e.err)
}

func (e *MalformedError) Unwrap() error {
	return e.err
}

// ExtractJSON extracts the first JSON object embedded in LLM response text.
// Models wrap structured output in prose and markdown fences; this strips
// the wrapping and locates the object with a depth-aware scan.
func ExtractJSON(text string) (json.RawMessage, error) {
	return extract(text, '{', '}')
}

// ExtractJSONArray extracts the first JSON array embedded in LLM response text.
func ExtractJSONArray(text string) (json.RawMessage, error) {
	return extract(text, '[', ']')
}

// ExtractInto extracts the first JSON object or array from text and
// unmarshals it into v. The target's kind decides which delimiter to scan
// for: slices get arrays, everything else gets objects.
func ExtractInto(text string, v any) error {
	var raw json.RawMessage
	var err error

	switch v.(type) {
	case *[]any:
		raw, err = ExtractJSONArray(text)
	default:
		raw, err = extractAny(text, v)
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return &MalformedError{Snippet: snippet(string(raw)), err: err}
	}
	return nil
}

func extractAny(text string, v any) (json.RawMessage, error) {
	// Prefer whichever structure appears first in the text.
	stripped := stripFences(text)
	objIdx := strings.IndexByte(stripped, '{')
	arrIdx := strings.IndexByte(stripped, '[')

	if arrIdx >= 0 && (objIdx < 0 || arrIdx < objIdx) {
		if isSlice(v) {
			return ExtractJSONArray(text)
		}
	}
	return ExtractJSON(text)
}

func isSlice(v any) bool {
	s := fmt.Sprintf("%T", v)
	return strings.HasPrefix(s, "*[]")
}

func extract(text string, open, close byte) (json.RawMessage, error) {
	stripped := stripFences(text)

	start := strings.IndexByte(stripped, open)
	if start < 0 {
		return nil, ErrNoStructure
	}

	end, ok := matchDelimiter(stripped, start, open, close)
	if !ok {
		return nil, &MalformedError{
			Snippet: snippet(stripped[start:]),
			err:     fmt.Errorf("unbalanced %q", string(open)),
		}
	}

	candidate := cleanJSON(stripped[start : end+1])
	if !json.Valid([]byte(candidate)) {
		return nil, &MalformedError{
			Snippet: snippet(candidate),
			err:     errors.New("invalid JSON"),
		}
	}
	return json.RawMessage(candidate), nil
}

// matchDelimiter scans from start for the delimiter closing the structure
// opened at start. The scan tracks nesting depth and skips string literals,
// so brackets inside quoted values never confuse the match.
func matchDelimiter(s string, start int, open, close byte) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		ch := s[i]

		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch ch {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// stripFences removes markdown code fences around the payload.
func stripFences(text string) string {
	text = strings.TrimSpace(text)

	if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+3:]
		// Skip a language tag like "json" on the fence line.
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			firstLine := strings.TrimSpace(rest[:nl])
			if len(firstLine) <= 10 && !strings.ContainsAny(firstLine, "{}[]") {
				rest = rest[nl+1:]
			}
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	return text
}

// cleanJSON repairs common LLM deviations from strict JSON: trailing commas
// and line comments. The pass respects string literals.
func cleanJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if escaped {
			b.WriteByte(ch)
			escaped = false
			continue
		}

		if inString {
			if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
			b.WriteByte(ch)
			continue
		}

		switch {
		case ch == '"':
			inString = true
			b.WriteByte(ch)
		case ch == '/' && i+1 < len(s) && s[i+1] == '/':
			// Skip to end of line.
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				b.WriteByte('\n')
			}
		case ch == ',':
			// Drop the comma if the next non-whitespace closes the structure.
			j := i + 1
			for j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n' || s[j] == '\r') {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
			b.WriteByte(ch)
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

func snippet(s string) string {
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}
