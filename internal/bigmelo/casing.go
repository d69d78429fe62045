package bigmelo

import "github.com/iancoleman/strcase"

// The remote API speaks snake_case, the application camelCase. Outbound
// bodies go through snakeKeys, inbound bodies through camelKeys; both walk
// nested objects and arrays.

func snakeKeys(v any) any { return convertKeys(v, strcase.ToSnake) }

func camelKeys(v any) any { return convertKeys(v, strcase.ToLowerCamel) }

func convertKeys(v any, convert func(string) string) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[convert(k)] = convertKeys(item, convert)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = convertKeys(item, convert)
		}
		return out
	default:
		return v
	}
}
