// Document identifier generation.
//
// A fresh id is the creation time in unix milliseconds, a dash, and a
// fixed-length random base36 suffix: 1756075932101-k3f9x0qz. Uniqueness is
// not checked — the suffix makes a collision within one millisecond
// negligible, and ids are practically unique rather than guaranteed
// unique. Ids double as filenames (<id>.db), so anything that could escape
// the collection directory is rejected up front.
package dossier

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// idSuffixLen is the length of the random base36 suffix.
const idSuffixLen = 8

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// now returns the current time in unix milliseconds.
func now() int64 {
	return time.Now().UnixMilli()
}

// newID generates a fresh document identifier.
func newID() string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(now(), 10))
	b.WriteByte('-')
	for i := 0; i < idSuffixLen; i++ {
		b.WriteByte(base36[rand.Intn(len(base36))])
	}
	return b.String()
}

// validID reports whether an id is usable as a filename inside the
// collection directory.
func validID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, "/\\\x00")
}
