package compressor

import (
	"fmt"
	"strings"
)

// ParseSpec splits a compressor spec of the form "name[:key=value,...]"
// into the backend name and its option map.
func ParseSpec(spec string) (string, map[string]string, error) {
	name, rest, _ := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, fmt.Errorf("compressor spec %q has no name", spec)
	}

	opts, err := ParseOptions(rest)
	if err != nil {
		return "", nil, err
	}

	return name, opts, nil
}

// ParseOptions parses "key=value[,key=value...]". Empty input gives an empty
// map. Later duplicates win.
func ParseOptions(s string) (map[string]string, error) {
	opts := make(map[string]string)
	if strings.TrimSpace(s) == "" {
		return opts, nil
	}

	for item := range strings.SplitSeq(s, ",") {
		key, value, ok := strings.Cut(item, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("compressor option must be key=value; saw '%s'", item)
		}
		opts[key] = value
	}

	return opts, nil
}
