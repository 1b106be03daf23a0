// File: internal/input/driver.go

// Package input injects synthetic keyboard and mouse events into the
// focused application.
package input

import (
	"context"
	"unicode"

	"github.com/Beckjiang/autocomposer/internal/config"
)

// Driver is the contract the workflow engine speaks to operate the target
// application. Implementations are thin adapters over OS input primitives;
// nothing below this interface knows anything about workflow semantics.
type Driver interface {
	// PressKey taps a single named key ("enter", "space", "@", ...).
	PressKey(ctx context.Context, key string) error
	// KeyChord holds the first key of the chord while tapping the rest in
	// order, e.g. ["ctrl", "i"].
	KeyChord(ctx context.Context, keys []string) error
	// TypeText enters text into the focused element, choosing between
	// direct keystroke synthesis and the clipboard-paste path per the
	// platform policy.
	TypeText(ctx context.Context, text string) error
	// PasteText places text on the clipboard and pastes it with the
	// platform's paste chord.
	PasteText(ctx context.Context, text string) error
	// Click presses the left mouse button at absolute screen coordinates.
	Click(ctx context.Context, x, y int) error
}

// usePastePath decides whether text entry must go through the clipboard.
// Direct keystroke synthesis only covers the basic Latin set, and on some
// platforms it is unreliable even for that, so the paste path is taken for
// any non-ASCII rune or whenever the platform flags direct typing as
// unreliable. Kept pure so the policy is testable without OS calls.
func usePastePath(p config.Platform, text string) bool {
	if !p.DirectTypingReliable() {
		return true
	}
	for _, r := range text {
		if r > unicode.MaxASCII {
			return true
		}
	}
	return false
}
