// Package command defines the tracker's command vocabulary and the line
// tokenizer that turns an input stream into tagged Command records.
//
// Lines that do not form a well-known command with the right number of
// arguments are skipped silently; the dispatcher never sees them. Double
// quote bytes are dropped wherever they appear while tokenizing, matching
// the tracker's identifier rules (identifiers are non-empty byte strings
// without quotes, spaces, or newlines).
package command
