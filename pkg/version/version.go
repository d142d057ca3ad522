// Package version stamps the compiled binary with a 20-byte sentinel so
// a companion updater can locate the version triple without symbol
// access, and exposes the runtime-queryable "MAJOR.MINOR.REVISION"
// string. The sentinel is a lazily computed constant rather than a
// file-scope constructor-initialized global: nothing here needs
// process-wide mutable state.
package version

import (
	"encoding/binary"
	"fmt"
	"sync"
)

// Major, Minor, and Revision are the compiled version triple. Revision is
// stored little-endian, 16 bits wide, immediately after the sentinel.
const (
	Major    = 1
	Minor    = 0
	Revision = 0
)

// sentinel is the fixed 20-byte marker an updater scans the binary for to
// locate the version triple that follows it.
var sentinel = [20]byte{
	0x6d, 0xfe, 0xff, 0x01, 0x90, 0xfa, 0x89, 0x57,
	0x88, 0xa1, 0xaa, 0xdc, 0xdd, 0xde, 0xb0, 0x33,
}

// stamp builds sentinel followed by major, minor, and the little-endian
// 16-bit revision once, on first use, and returns the same bytes after.
var stamp = sync.OnceValue(buildStamp)

func buildStamp() []byte {
	b := make([]byte, 0, len(sentinel)+2+2)
	b = append(b, sentinel[:]...)
	b = append(b, byte(Major), byte(Minor))
	rev := make([]byte, 2)
	binary.LittleEndian.PutUint16(rev, uint16(Revision))
	return append(b, rev...)
}

// Stamp returns the sentinel-prefixed version stamp embedded in the
// binary.
func Stamp() []byte {
	return stamp()
}

// String renders the runtime-queryable version string.
func String() string {
	return fmt.Sprintf("%d.%d.%d", Major, Minor, Revision)
}
