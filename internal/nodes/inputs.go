package nodes

// lookup returns the first of keys present in inputs.
func lookup(inputs map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if val, ok := inputs[key]; ok {
			return val, true
		}
	}
	return nil, false
}

func getString(inputs map[string]any, key string) (string, bool) {
	if val, ok := inputs[key]; ok {
		if str, ok := val.(string); ok {
			return str, true
		}
	}
	return "", false
}
