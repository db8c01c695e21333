package attrs

// Lookup scans a [key1, value1, key2, value2, ...] attribute list and returns
// the string value paired with key. Returns the empty string if the key is
// missing or its value is not a string.
func Lookup(attributes []any, key string) string {
	for i := 0; i+1 < len(attributes); i += 2 {
		name, ok := attributes[i].(string)
		if !ok || name != key {
			continue
		}
		if value, ok := attributes[i+1].(string); ok {
			return value
		}
	}
	return ""
}
