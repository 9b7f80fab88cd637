// Package bitio reads little-endian, unaligned fields straight out of a
// byte slice. Every header field anywhere in this program goes through
// here; nothing ever casts a pointer over the archive bytes.
package bitio

import "encoding/binary"

// Uint16 reads an unaligned little-endian uint16 starting at off.
func Uint16(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off : off+2])
}

// Uint32 reads an unaligned little-endian uint32 starting at off.
func Uint32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

// Uint64 reads an unaligned little-endian uint64 starting at off.
func Uint64(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+8])
}
