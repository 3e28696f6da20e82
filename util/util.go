// Package util holds small helpers shared by the CLI and the detectors.
package util

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/exp/constraints"
	"golang.org/x/term"
)

var (
	unsafeFilenameChars = regexp.MustCompile(`[\\/<>:;"'|?!*{}#%&^+,~\s]`)
	repeatedUnderscores = regexp.MustCompile(`__+`)
	edgeSeparators      = regexp.MustCompile(`^[_\-.]+|[_\-.]+$`)
)

// SanitizeFilename turns s into a name that is valid on every platform.
func SanitizeFilename(s string) string {
	s = unsafeFilenameChars.ReplaceAllString(s, "_")
	s = repeatedUnderscores.ReplaceAllString(s, "_")
	return edgeSeparators.ReplaceAllString(s, "")
}

// Quantify formats count with the matching noun.
func Quantify(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// TerminalSize of stdout.
func TerminalSize() (width, height int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// FileStem is the base name without its extension.
func FileStem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// ReGroups maps the named groups of the first match of pattern in str.
// Groups that did not participate map to "".
func ReGroups(pattern *regexp.Regexp, str string) map[string]string {
	groups := make(map[string]string)
	match := pattern.FindStringSubmatch(str)
	if match == nil {
		return groups
	}

	for i, name := range pattern.SubexpNames() {
		if i > 0 && name != "" {
			groups[name] = match[i]
		}
	}
	return groups
}

// PrintErasable writes msg on the current line and returns a func that wipes it.
func PrintErasable(msg string) (eraser func()) {
	fmt.Fprintf(os.Stdout, "\r%s", msg)
	return func() {
		fmt.Fprintf(os.Stdout, "\r%s\r", strings.Repeat(" ", len(msg)))
	}
}

// Ignore calls f and drops its error. Meant for deferred Close calls.
func Ignore(f func() error) {
	_ = f()
}

// Max of items, zero value when empty.
func Max[T constraints.Ordered](items ...T) (max T) {
	for i, item := range items {
		if i == 0 || item > max {
			max = item
		}
	}
	return
}

// Min of items, zero value when empty.
func Min[T constraints.Ordered](items ...T) (min T) {
	for i, item := range items {
		if i == 0 || item < min {
			min = item
		}
	}
	return
}
