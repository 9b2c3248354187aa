// File path: internal/fam/parser.go

// Package fam parses the line-oriented replies the lookup bot posts to the
// group, e.g.
//
//	FAM ID : sugarsingh@fam
//	NAME   : Sugar Singh
//	PHONE  : +919000000000
//	TYPE   : Contact
package fam

import (
	"regexp"
	"strings"
)

// Info is the structured form of a bot reply. Fields the bot did not report
// stay empty.
type Info struct {
	FamID string `json:"fam_id,omitempty"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Type  string `json:"type,omitempty"`
}

// Valid reports whether the reply carried the one field every record needs.
func (i Info) Valid() bool {
	return i.FamID != ""
}

var (
	famIDPattern = regexp.MustCompile(`(?i)FAM\s*ID\s*:\s*([^\n]+)`)
	namePattern  = regexp.MustCompile(`(?i)NAME\s*:\s*([^\n]+)`)
	phonePattern = regexp.MustCompile(`(?i)PHONE\s*:\s*([^\n]+)`)
	typePattern  = regexp.MustCompile(`(?i)TYPE\s*:\s*([^\n]+)`)
)

// Parse extracts record fields from a bot reply. Lines that match none of
// the known markers are ignored. The type tag is normalised to lower case.
func Parse(text string) Info {
	info := Info{}
	if m := famIDPattern.FindStringSubmatch(text); m != nil {
		info.FamID = strings.TrimSpace(m[1])
	}
	if m := namePattern.FindStringSubmatch(text); m != nil {
		info.Name = strings.TrimSpace(m[1])
	}
	if m := phonePattern.FindStringSubmatch(text); m != nil {
		info.Phone = strings.TrimSpace(m[1])
	}
	if m := typePattern.FindStringSubmatch(text); m != nil {
		info.Type = strings.ToLower(strings.TrimSpace(m[1]))
	}
	return info
}

// HasMarkers reports whether text looks like a bot reply at all. The update
// handler uses it to discard group chatter before parsing.
func HasMarkers(text string) bool {
	upper := strings.ToUpper(text)
	for _, keyword := range []string{"FAM ID", "NAME:", "PHONE:", "TYPE:"} {
		if strings.Contains(upper, keyword) {
			return true
		}
	}
	return false
}
