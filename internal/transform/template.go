package transform

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports a fill key with no matching placeholder in the
// template.
type ValidationError struct {
	Key string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("template has no placeholder for key %q", e.Key)
}

// Fill substitutes every {key} placeholder in template with its value.
// Before substituting it verifies that each key actually occurs in the
// template; a key without a placeholder fails with ValidationError and
// nothing is produced. Keys are checked in sorted order so the reported
// key is deterministic.
func Fill(template string, values map[string]string) (string, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !strings.Contains(template, "{"+k+"}") {
			return "", &ValidationError{Key: k}
		}
	}
	out := template
	for _, k := range keys {
		out = strings.ReplaceAll(out, "{"+k+"}", values[k])
	}
	return out, nil
}
