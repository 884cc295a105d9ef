package directory

import (
	"crypto/rand"
	"strings"
)

const idCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var idSubstitutions = strings.NewReplacer(
	"O", "P",
	"0", "1",
	"I", "J",
	"l", "m",
)

// randomAlphanumeric samples an n-character alphanumeric string.
func randomAlphanumeric(n int) string {
	buf := make([]byte, n)
	idx := make([]byte, n)
	if _, err := rand.Read(idx); err != nil {
		panic("directory: crypto/rand unavailable: " + err.Error())
	}
	for i, b := range idx {
		buf[i] = idCharset[int(b)%len(idCharset)]
	}
	return string(buf)
}

// newRoomID samples a 5-character alphanumeric string and substitutes the
// visually-ambiguous characters O→P, 0→1, I→J, l→m (spec §4.4 Unique
// room-id allocation). Collision retry is the caller's job.
func newRoomID() string {
	return idSubstitutions.Replace(randomAlphanumeric(5))
}
