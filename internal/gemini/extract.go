package gemini

import (
	"encoding/json"
	"regexp"
	"strings"
)

// от первой "[" до последней "]"
var arrayPattern = regexp.MustCompile(`\[[\s\S]*\]`)

// ExtractJSONArray достаёт JSON-массив из ответа модели. Если скобок нет,
// снимает ограждения ```json / ``` и обрезает пробелы.
func ExtractJSONArray(text string) string {
	if m := arrayPattern.FindString(text); m != "" {
		return m
	}
	stripped := strings.ReplaceAll(text, "```json", "")
	stripped = strings.ReplaceAll(stripped, "```", "")
	return strings.TrimSpace(stripped)
}

func decodeArray[T any](text string) ([]T, error) {
	var items []T
	if err := json.Unmarshal([]byte(ExtractJSONArray(text)), &items); err != nil {
		return nil, &MalformedResponseError{Text: text, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
