// Package logtail reads the tail of the pricewatch log for the in-app log
// pane.
//
// Read extracts the last N lines of a file in a single pass using a ring
// buffer, so memory stays proportional to N rather than the file size. A
// missing file yields no lines and no error, since the log may not exist
// before the first entry is written.
//
// Parse understands the JSON lines written by the zap file encoder and
// splits them into time, level, logger, message and sorted extra fields.
// Lines in any other format pass through untouched as the message.
package logtail
