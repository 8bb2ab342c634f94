package models

import (
	"regexp"
	"strings"
)

var varPattern = regexp.MustCompile(`{{(.*?)}}`)

// HasVars reports whether the command text contains {{variable}} placeholders.
func HasVars(cmd string) bool {
	return varPattern.MatchString(cmd)
}

// ExtractVars returns the unique placeholder names in order of first
// appearance.
func ExtractVars(cmd string) []string {
	matches := varPattern.FindAllStringSubmatch(cmd, -1)
	seen := make(map[string]struct{}, len(matches))
	var names []string
	for _, m := range matches {
		if _, dup := seen[m[1]]; dup {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}

// SubstituteVars replaces each {{name}} placeholder with its value. Missing
// names are left in place so the user can see what was not filled in.
func SubstituteVars(cmd string, values map[string]string) string {
	for name, val := range values {
		cmd = strings.ReplaceAll(cmd, "{{"+name+"}}", val)
	}
	return cmd
}
