// Package lang is the registry of languages the detection engine accepts.
//
// Dispatch is an explicit enum plus a static lookup table. An unknown
// language or extension is an error, never a silent default.
package lang

import (
	"fmt"
	"strings"
)

// Language identifies a supported source language.
type Language int

const (
	C Language = iota + 1
	CPP
	Java
	Python
	Go
)

// String returns the canonical lower-case name used in configs and reports.
func (l Language) String() string {
	switch l {
	case C:
		return "c"
	case CPP:
		return "cpp"
	case Java:
		return "java"
	case Python:
		return "python"
	case Go:
		return "go"
	default:
		return "unknown"
	}
}

// Ext returns the normalized-source file extension for the language.
func (l Language) Ext() string {
	switch l {
	case C:
		return ".c"
	case CPP:
		return ".cpp"
	case Java:
		return ".java"
	case Python:
		return ".py"
	case Go:
		return ".go"
	default:
		return ""
	}
}

var byName = map[string]Language{
	"c":      C,
	"cpp":    CPP,
	"c++":    CPP,
	"java":   Java,
	"python": Python,
	"py":     Python,
	"go":     Go,
	"golang": Go,
}

var byExt = map[string]Language{
	".c":    C,
	".cc":   CPP,
	".cpp":  CPP,
	".cxx":  CPP,
	".java": Java,
	".py":   Python,
	".go":   Go,
}

// FromName resolves a configured language name. Matching is case-insensitive.
func FromName(name string) (Language, error) {
	if l, ok := byName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return l, nil
	}
	return 0, fmt.Errorf("unsupported language: %q", name)
}

// FromExtension resolves a source file extension like ".java".
func FromExtension(ext string) (Language, error) {
	if l, ok := byExt[strings.ToLower(ext)]; ok {
		return l, nil
	}
	return 0, fmt.Errorf("unsupported file extension: %q", ext)
}

// All lists every supported language in declaration order.
func All() []Language {
	return []Language{C, CPP, Java, Python, Go}
}

// Names lists the canonical names of every supported language.
func Names() []string {
	langs := All()
	names := make([]string, 0, len(langs))
	for _, l := range langs {
		names = append(names, l.String())
	}
	return names
}
