package tui

import (
	"os"
	"strings"
	"sync"
)

// Terminals can't change the user's font, so affordances come in a Unicode
// and an ASCII set for fonts that don't render some glyphs cleanly.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference prefers SHOPLIST_TUI_GLYPHS over the configured value.
func applyGlyphPreference(configured string) {
	v := strings.TrimSpace(os.Getenv("SHOPLIST_TUI_GLYPHS"))
	if v == "" {
		v = configured
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	default:
		// Unknown value: ignore.
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func glyphChecked() string {
	if glyphs() == glyphSetASCII {
		return "[x]"
	}
	return "[✓]"
}

func glyphUnchecked() string {
	return "[ ]"
}

func glyphCursor() string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	return "›"
}

// glyphDefault marks items that are also on the default list.
func glyphDefault() string {
	if glyphs() == glyphSetASCII {
		return "*"
	}
	return "★"
}

func glyphHRule() string {
	if glyphs() == glyphSetASCII {
		return "-"
	}
	return "─"
}
