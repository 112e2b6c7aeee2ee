package util

import "strings"

var truthyValues = map[string]bool{
	"true": true,
	"yes":  true,
	"1":    true,
}

// Truthy reports whether an environment-style flag value means enabled.
func Truthy(s string) bool {
	return truthyValues[strings.ToLower(strings.TrimSpace(s))]
}
