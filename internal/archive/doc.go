// Package archive keeps a SQLite index of recorded meetings so past sessions
// can be listed and inspected without scanning the transcript directory.
package archive
