// Package format compiles format patterns and renders log entries
// through them.
//
// A pattern like "{date} [{thread}] {level}: {message}" is compiled
// once per configuration into a token list; every log call replays the
// tokens instead of re-parsing the pattern. Unknown placeholders and
// unterminated braces degrade to literal text, so a pattern never
// fails to compile.
//
// Date placeholders carry their own compiled sub-formatter. A
// DateFormatter reuses an internal scratch buffer and therefore
// serializes concurrent renders on a per-instance mutex; two distinct
// date tokens never contend with each other.
//
// The package also renders the two dynamic parts of an entry: messages
// with positional {0}-style arguments, formatted through the
// configured locale, and error cause chains bounded by a frame budget
// that decays with the frames actually printed.
package format
