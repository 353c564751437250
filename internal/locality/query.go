// ABOUTME: Converts tools/call arguments into upstream query parameters.
// ABOUTME: Copies every non-null argument verbatim; arrays become repeated keys.

package locality

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// EncodeArguments turns a tools/call arguments object into query parameters.
// Keys are never renamed and values are never coerced beyond their textual
// form: strings as-is, numbers with their original digits, booleans as
// true/false, arrays as one parameter per element. Null values (and null
// array elements) are skipped.
func EncodeArguments(args map[string]any) url.Values {
	q := url.Values{}
	for key, value := range args {
		if value == nil {
			continue
		}
		if items, ok := value.([]any); ok {
			for _, item := range items {
				if item != nil {
					q.Add(key, scalarString(item))
				}
			}
			continue
		}
		q.Add(key, scalarString(value))
	}
	return q
}

func scalarString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		// nested objects travel as compact JSON
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}
