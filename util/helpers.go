// Package util provides utility functions for date bucketing, version parsing,
// dependency name normalization and extracting settings from the environment.
//
//revive:disable-next-line:var-naming
package util

import (
	"os"
	"strconv"
	"strings"
)

// GetEnvDefault is a convenience function for handling env vars
func GetEnvDefault(key, defVal string) string {
	val, ex := os.LookupEnv(key) // get the env var
	if !ex {                     // not found return default
		return defVal
	}
	return val // return value for env var
}

// GetEnvBool returns the boolean value of an env var or defVal when unset or unparsable
func GetEnvBool(key string, defVal bool) bool {
	val, ex := os.LookupEnv(key)
	if !ex {
		return defVal
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(val))
	if err != nil {
		return defVal
	}
	return parsed
}

// GetEnvInt returns the integer value of an env var or defVal when unset or unparsable
func GetEnvInt(key string, defVal int) int {
	val, ex := os.LookupEnv(key)
	if !ex {
		return defVal
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return defVal
	}
	return parsed
}

// IsEmpty checks if a string is empty or contains only whitespace
func IsEmpty(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}

// IsNotEmpty checks if a string is not empty
func IsNotEmpty(s string) bool {
	return !IsEmpty(s)
}

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// Contains checks if a string slice contains an item
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// SplitAndTrim splits a comma separated list and drops empty entries
func SplitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// NormalizeRecipients trims addresses, drops empty ones and removes duplicates
// (case-insensitive) while keeping the first spelling and order.
func NormalizeRecipients(recipients []string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, r := range recipients {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		key := strings.ToLower(r)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}
