// Package testfixture builds ZipCrypto-encrypted archive bytes for tests.
// It is deliberately separate from internal/zipcrypto, which only ever
// decrypts: production code has no business encrypting anything, so the
// (small) encrypt-direction key tumbler needed to manufacture fixtures lives
// here instead, mirroring the structure of a standalone ZipCrypto
// implementation rather than reusing the decrypt-only Engine's internals.
package testfixture

import (
	"bytes"
	"compress/flate"
	"hash/crc32"
)

const (
	initK0     = 0x12345678
	initK1     = 0x23456789
	initK2     = 0x34567890
	multiplier = 134775813
)

type cryptoState struct {
	k0, k1, k2 uint32
}

func newCryptoState(password []byte) *cryptoState {
	s := &cryptoState{initK0, initK1, initK2}
	for _, p := range password {
		s.update(p)
	}
	return s
}

func (s *cryptoState) update(p byte) {
	s.k0 = crc32.IEEETable[byte(s.k0)^p] ^ (s.k0 >> 8)
	s.k1 = (s.k1+(s.k0&0xff))*multiplier + 1
	s.k2 = crc32.IEEETable[byte(s.k2)^byte(s.k1>>24)] ^ (s.k2 >> 8)
}

func (s *cryptoState) magicByte() byte {
	t := uint16(s.k2 | 2)
	return byte((t * (t ^ 1)) >> 8)
}

// encrypt returns the ciphertext for plain, updating the key after each
// byte from the plaintext (the defining asymmetry versus decryption).
func (s *cryptoState) encrypt(plain []byte) []byte {
	out := make([]byte, len(plain))
	for i, p := range plain {
		out[i] = p ^ s.magicByte()
		s.update(p)
	}
	return out
}

// Entry describes one archive member to encode into a fixture.
type Entry struct {
	Name        string
	Plain       []byte
	Password    string
	Deflate     bool
	ModTime     uint16
	Streaming   bool // emit 0xFFFFFFFF size sentinels + ZIP64 extra + trailing data descriptor
	HeaderSeed  []byte
	Unencrypted bool // omit the ZipCrypto header and general-purpose bit 0
}

const (
	localFileSignature       = 0x04034b50
	dataDescriptorSignature  = 0x08074b50
	centralDirSignature      = 0x02014b50
	endOfCentralDirSignature = 0x06054b50
)

// record captures what the central directory needs to say about one written
// local-file record.
type record struct {
	entry      Entry
	flags      uint16
	method     uint16
	crc        uint32
	compSize   uint32
	uncompSize uint32
	offset     uint32
}

// Build assembles a minimal single/multi-entry local-file-only archive (no
// central directory — this tool's decoder never reads one, so fixtures
// don't need one either) encrypted with each entry's password.
func Build(entries []Entry) []byte {
	b, _ := buildLocal(entries)
	return b
}

// BuildWithDirectory is Build plus a trailing central directory and
// end-of-central-directory record, so the fixture is also openable by a
// full-featured reader like yeka/zip (which resolves entries through the
// directory rather than walking local records).
func BuildWithDirectory(entries []Entry) []byte {
	body, records := buildLocal(entries)

	var buf bytes.Buffer
	buf.Write(body)

	writeU16 := func(v uint16) { buf.WriteByte(byte(v)); buf.WriteByte(byte(v >> 8)) }
	writeU32 := func(v uint32) {
		buf.WriteByte(byte(v))
		buf.WriteByte(byte(v >> 8))
		buf.WriteByte(byte(v >> 16))
		buf.WriteByte(byte(v >> 24))
	}

	cdStart := buf.Len()
	for _, r := range records {
		writeU32(centralDirSignature)
		writeU16(20) // version made by
		writeU16(20) // version needed
		writeU16(r.flags)
		writeU16(r.method)
		writeU16(r.entry.ModTime)
		writeU16(0) // last mod date
		writeU32(r.crc)
		writeU32(r.compSize)
		writeU32(r.uncompSize)
		writeU16(uint16(len(r.entry.Name)))
		writeU16(0) // extra length
		writeU16(0) // comment length
		writeU16(0) // disk number start
		writeU16(0) // internal attributes
		writeU32(0) // external attributes
		writeU32(r.offset)
		buf.WriteString(r.entry.Name)
	}
	cdSize := buf.Len() - cdStart

	writeU32(endOfCentralDirSignature)
	writeU16(0) // disk number
	writeU16(0) // directory start disk
	writeU16(uint16(len(records)))
	writeU16(uint16(len(records)))
	writeU32(uint32(cdSize))
	writeU32(uint32(cdStart))
	writeU16(0) // comment length

	return buf.Bytes()
}

func buildLocal(entries []Entry) ([]byte, []record) {
	var buf bytes.Buffer
	var records []record

	for _, e := range entries {
		payload := e.Plain
		method := uint16(0)
		if e.Deflate {
			method = 8
			var compressed bytes.Buffer
			fw, _ := flate.NewWriter(&compressed, flate.DefaultCompression)
			_, _ = fw.Write(payload)
			_ = fw.Close()
			payload = compressed.Bytes()
		}

		crc := crc32.ChecksumIEEE(e.Plain)

		var encHeader, encPayload []byte
		flags := uint16(0)
		if e.Unencrypted {
			encPayload = payload
		} else {
			header := make([]byte, 12)
			if len(e.HeaderSeed) == 12 {
				copy(header, e.HeaderSeed)
			} else {
				for i := range header {
					header[i] = byte(i * 17)
				}
			}
			// Check bits are always the entry's last-mod-time field, split low/high.
			header[10] = byte(e.ModTime)
			header[11] = byte(e.ModTime >> 8)

			state := newCryptoState([]byte(e.Password))
			encHeader = state.encrypt(header)
			encPayload = state.encrypt(payload)
			flags |= 0x0001
		}
		if e.Streaming {
			flags |= 0x0008
		}

		compSize := uint32(len(encHeader) + len(encPayload))
		uncompSize := uint32(len(e.Plain))

		writeU16 := func(v uint16) { buf.WriteByte(byte(v)); buf.WriteByte(byte(v >> 8)) }
		writeU32 := func(v uint32) {
			buf.WriteByte(byte(v))
			buf.WriteByte(byte(v >> 8))
			buf.WriteByte(byte(v >> 16))
			buf.WriteByte(byte(v >> 24))
		}

		var extra bytes.Buffer
		if e.Streaming {
			writeU16ExtraID := func(v uint16) { extra.WriteByte(byte(v)); extra.WriteByte(byte(v >> 8)) }
			writeU64 := func(v uint64) {
				for i := 0; i < 8; i++ {
					extra.WriteByte(byte(v >> (8 * i)))
				}
			}
			writeU16ExtraID(0x0001)
			writeU16ExtraID(16) // sub-record data size
			writeU64(uint64(uncompSize))
			writeU64(uint64(compSize))
		}

		offset := uint32(buf.Len())

		writeU32(localFileSignature)
		writeU16(20)     // version needed
		writeU16(flags)  // general purpose flags
		writeU16(method) // compression method
		writeU16(e.ModTime)
		writeU16(0) // last mod date

		if e.Streaming {
			writeU32(0) // crc32 unknown at header-write time
			writeU32(0xffffffff)
			writeU32(0xffffffff)
		} else {
			writeU32(crc)
			writeU32(compSize)
			writeU32(uncompSize)
		}

		writeU16(uint16(len(e.Name)))
		writeU16(uint16(extra.Len()))
		buf.WriteString(e.Name)
		buf.Write(extra.Bytes())
		buf.Write(encHeader)
		buf.Write(encPayload)

		if e.Streaming {
			writeU32(dataDescriptorSignature)
			writeU32(crc)
			writeU64 := func(v uint64) {
				for i := 0; i < 8; i++ {
					buf.WriteByte(byte(v >> (8 * i)))
				}
			}
			writeU64(uint64(compSize))
			writeU64(uint64(uncompSize))
		}

		records = append(records, record{
			entry:      e,
			flags:      flags,
			method:     method,
			crc:        crc,
			compSize:   compSize,
			uncompSize: uncompSize,
			offset:     offset,
		})
	}

	return buf.Bytes(), records
}
