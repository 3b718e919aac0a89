package crypt

import "github.com/awnumar/memguard"

// Wipe overwrites each buffer with zeroes. Nil buffers are ignored.
func Wipe(bufs ...[]byte) {
	for _, b := range bufs {
		if len(b) == 0 {
			continue
		}
		memguard.WipeBytes(b)
	}
}
