package tui

import (
	"fmt"
	"strings"
)

// Canonical short status messages used across the app.
const (
	MsgLoading      = "Loading…"
	MsgLoadingMore  = "Loading more…"
	MsgReloading    = "Reloading sources…"
	MsgNoSources    = "No sources selected"
	MsgNoResults    = "No results from any source"
	MsgExhausted    = "End of results: every source is exhausted"
	MsgBusy         = "A load is already in progress"
	MsgNoMatches    = "No matching cards"
	MsgNothingToUse = "Nothing selected"
)

// MsgNoSourcesHint tells the user how to select sources.
const MsgNoSourcesHint = "Select sources with: vodfall sources select <id>…"

func MsgLoaded(cards, sources int) string {
	return fmt.Sprintf("%s from %s", plural(cards, "card"), plural(sources, "source"))
}

func MsgAppended(n int) string {
	return fmt.Sprintf("+%s", plural(n, "card"))
}

func MsgResultsCount(n int) string {
	if n == 0 {
		return MsgNoMatches
	}
	return plural(n, "match")
}

func MsgOpened(target string) string {
	return "Opened " + strings.TrimSpace(target)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	if strings.HasSuffix(noun, "ch") {
		return fmt.Sprintf("%d %ses", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
