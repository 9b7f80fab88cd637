// Package crack ties the archive, cipher, and candidate packages together:
// a per-attempt Verify check, and a parallel driver that sweeps a candidate
// source across every encrypted entry in an archive looking for a password
// that opens any one of them.
package crack

import (
	"hash/crc32"

	"zipcrack/internal/inflate"
	"zipcrack/internal/zipcrypto"
	"zipcrack/internal/zipfile"
)

// Attempt bundles the per-worker scratch state a single goroutine reuses
// across every candidate it tries, so no allocation happens on the hot path.
type Attempt struct {
	engine zipcrypto.Engine
	inf    *inflate.Inflater
}

// NewAttempt returns a ready-to-use, per-worker scratch state.
func NewAttempt() *Attempt {
	return &Attempt{inf: inflate.New()}
}

// Verify reports whether password opens entry: the 12-byte header check must
// pass, and the fully decrypted-and-(if needed)-inflated payload must match
// the entry's effective CRC-32. A failing header check is the common case and
// exits before any bulk work.
func (a *Attempt) Verify(entry zipfile.LocalFile, password []byte) bool {
	if !entry.IsEncrypted() {
		return false
	}

	payload := entry.CompressedPayload()
	if len(payload) < 12 {
		return false
	}
	header, body := payload[:12], payload[12:]

	if !a.engine.Reset(password, header, entry.LastModTime()) {
		return false
	}

	switch entry.CompressionMethod() {
	case zipfile.MethodStored:
		crc := crc32.NewIEEE()
		a.engine.Transform(body, func(chunk []byte) { crc.Write(chunk) })
		return crc.Sum32() == entry.EffectiveCRC32()

	case zipfile.MethodDeflated:
		a.inf.Reset()
		crc := crc32.NewIEEE()
		src := a.engine.NewReader(body)
		if err := a.inf.Transform(src, func(chunk []byte) { crc.Write(chunk) }); err != nil {
			return false
		}
		return crc.Sum32() == entry.EffectiveCRC32()

	default:
		return false
	}
}
