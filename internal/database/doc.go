// Package database provides SQLite-based storage for harvest history.
//
// Every successful harvest is recorded as a run together with the problems
// it produced. Each fragment is stored with a SHA3-256 content hash so a
// later run can tell which problems changed on the wiki since the previous
// harvest of the same page.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because the
// history is a single local file and the CGO-free driver keeps
// cross-compilation simple.
package database
