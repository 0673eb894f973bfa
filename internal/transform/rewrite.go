package transform

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FieldRule rewrites an entire line when its trimmed content starts with
// Prefix, unless the variant being processed appears in Except.
type FieldRule struct {
	Prefix      string
	Replacement string
	Except      []string
}

// RewriteFields applies the first matching rule to each line. Lines no
// rule matches pass through unchanged.
func RewriteFields(lines []string, rules []FieldRule, variant string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line
		trimmed := strings.TrimSpace(line)
		for _, r := range rules {
			if !strings.HasPrefix(trimmed, r.Prefix) {
				continue
			}
			if excepted(r.Except, variant) {
				break
			}
			out[i] = r.Replacement
			break
		}
	}
	return out
}

func excepted(except []string, variant string) bool {
	for _, v := range except {
		if v == variant {
			return true
		}
	}
	return false
}

// PathRule replaces any line containing Marker with Template filled by the
// path of File relative to a configured location.
type PathRule struct {
	Marker   string
	Template string // one %s, receives the joined relative path
	File     string
}

// SubstitutePaths applies the first matching rule to each line, embedding
// filepath.Join(relDir, rule.File) into the rule's template.
func SubstitutePaths(lines []string, rules []PathRule, relDir string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line
		for _, r := range rules {
			if strings.Contains(line, r.Marker) {
				out[i] = fmt.Sprintf(r.Template, filepath.Join(relDir, r.File))
				break
			}
		}
	}
	return out
}
