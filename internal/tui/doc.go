// Package tui is the interactive review surface: a bubbletea program that
// renders the queue, the focused item, and its audit timeline, and maps
// keystrokes to controller actions. All state transitions live in
// internal/review and internal/audit; this package schedules their tickets
// as tea commands and applies the results in Update.
package tui
