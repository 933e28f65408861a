package formatting

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content cannot be parsed as JSON,
// either directly or from a markdown code fence.
var ErrParseFailed = errors.New("failed to parse response")

var jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

// Parse attempts to unmarshal content as JSON into T.
// If direct parsing fails, it extracts JSON from a markdown code fence
// and retries. Returns ErrParseFailed if both attempts fail.
func Parse[T any](content string) (T, error) {
	return parse[T](content, false)
}

// ParseStrict behaves like Parse but rejects objects carrying fields that T does not declare.
func ParseStrict[T any](content string) (T, error) {
	return parse[T](content, true)
}

func parse[T any](content string, strict bool) (T, error) {
	var result T
	content = strings.TrimSpace(content)

	if err := decode(content, strict, &result); err == nil {
		return result, nil
	}

	matches := jsonBlockRegex.FindStringSubmatch(content)
	if len(matches) >= 2 {
		result = *new(T)
		cleaned := strings.TrimSpace(matches[1])
		if err := decode(cleaned, strict, &result); err == nil {
			return result, nil
		}
	}

	return *new(T), fmt.Errorf("%w: %s", ErrParseFailed, content)
}

func decode(content string, strict bool, v any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(content)))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("trailing data after JSON value")
	}
	return nil
}
