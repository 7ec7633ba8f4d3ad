package agent

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	engine "github.com/jason-s-yu/idiomchain/engine"
)

// braceBlock matches the first flat {...} block in free-form model output.
var braceBlock = regexp.MustCompile(`\{[^{}]*\}`)

// ParseMoveText decodes a move claim from raw model output.
// It tries the whole text as a JSON object, then the first {...} block.
// ok is false when neither parses; that is a parse failure, not a resignation.
func ParseMoveText(text string) (claim engine.MoveClaim, ok bool) {
	text = strings.TrimSpace(text)
	obj, ok := decodeObject(text)
	if !ok {
		if block := braceBlock.FindString(text); block != "" {
			obj, ok = decodeObject(block)
		}
	}
	if !ok {
		return engine.MoveClaim{}, false
	}
	return engine.MoveClaim{
		Phrase:  stringField(obj["word"]),
		Witness: stringField(obj["next_word"]),
		Success: truthy(obj["success"]),
	}, true
}

func decodeObject(s string) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}

// stringField coerces a decoded JSON value to text; absent fields are "".
func stringField(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// truthy applies loose truthiness: false, 0, "", empty containers and
// absent values are false.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	}
	return true
}
