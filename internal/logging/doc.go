// Package logging builds the console's slog logger: a compact single-line
// console handler for interactive use and a JSON handler for log files and
// machine consumption. The TUI swallows stdout, so interactive runs log to
// the file only.
package logging
