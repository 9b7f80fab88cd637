// Package zipfile walks the local-file records of a ZIP archive directly
// out of an in-memory byte range, without consulting (or requiring) a
// central directory. It understands ZIP64 size overrides and trailing data
// descriptors, the two wrinkles that streaming ZipCrypto producers rely on.
package zipfile

import (
	"zipcrack/internal/bitio"
	"zipcrack/internal/zerr"
)

const (
	// Signature is the magic 4 bytes that opens every local-file record.
	Signature = 0x04034b50

	dataDescriptorMagic = 0x08074b50

	headerSize = 30

	zip64ExtraID = 0x0001
)

// Compression methods recognized by the validator; anything else is exposed
// as-is and rejected downstream.
const (
	MethodStored   = 0
	MethodDeflated = 8
)

// LocalFile is a read-only view onto one local-file record. It never copies
// the archive; every accessor computes its result from offsets into the
// shared backing slice.
type LocalFile struct {
	archive []byte
	off     int

	nameLen  int
	extraLen int
}

// IsZip reports whether the first 30 bytes of b are in-bounds and begin
// with the local-file signature.
func IsZip(b []byte) bool {
	if len(b) < headerSize {
		return false
	}
	return bitio.Uint32(b, 0) == Signature
}

// Walk parses every local-file record in archive, starting at offset 0 and
// stopping at the first position whose signature doesn't match (or at the
// end of the archive). The central directory, if any, is never consulted —
// this is the termination rule, preserved for compatibility with archives
// produced by streaming writers that never get a chance to emit one.
func Walk(archive []byte) ([]LocalFile, error) {
	var out []LocalFile

	off := 0
	for off+headerSize <= len(archive) && bitio.Uint32(archive, off) == Signature {
		lf := LocalFile{
			archive:  archive,
			off:      off,
			nameLen:  int(bitio.Uint16(archive, off+26)),
			extraLen: int(bitio.Uint16(archive, off+28)),
		}

		tailStart := off + headerSize + lf.nameLen + lf.extraLen
		if tailStart > len(archive) {
			return nil, zerr.ErrMalformedArchive
		}

		compSize, err := lf.effectiveCompressedSizeRaw()
		if err != nil {
			return nil, err
		}

		payloadEnd := tailStart + int(compSize)
		if payloadEnd < tailStart || payloadEnd > len(archive) {
			return nil, zerr.ErrMalformedArchive
		}

		next := payloadEnd
		if lf.HasDataDescriptor() {
			descLen, err := lf.dataDescriptorLen(payloadEnd)
			if err != nil {
				return nil, err
			}
			next = payloadEnd + descLen
			if next > len(archive) {
				return nil, zerr.ErrMalformedArchive
			}
		}

		out = append(out, lf)

		if next >= len(archive) {
			break
		}
		off = next
	}

	return out, nil
}

func (lf LocalFile) h(offset int) []byte { return lf.archive[lf.off+offset:] }

// GPFlags is the raw general-purpose bit flag field.
func (lf LocalFile) GPFlags() uint16 { return bitio.Uint16(lf.h(6), 0) }

// CompressionMethod is the raw compression method field.
func (lf LocalFile) CompressionMethod() uint16 { return bitio.Uint16(lf.h(8), 0) }

// LastModTime doubles as the ZipCrypto "check bits" value.
func (lf LocalFile) LastModTime() uint16 { return bitio.Uint16(lf.h(10), 0) }

func (lf LocalFile) rawCRC32() uint32            { return bitio.Uint32(lf.h(14), 0) }
func (lf LocalFile) rawCompressedSize() uint32   { return bitio.Uint32(lf.h(18), 0) }
func (lf LocalFile) rawUncompressedSize() uint32 { return bitio.Uint32(lf.h(22), 0) }

// IsEncrypted reports whether general-purpose bit 0 is set.
func (lf LocalFile) IsEncrypted() bool { return lf.GPFlags()&0x01 != 0 }

// HasDataDescriptor reports whether general-purpose bit 3 is set.
func (lf LocalFile) HasDataDescriptor() bool { return lf.GPFlags()&0x08 != 0 }

// IsZip64 reports whether both raw size fields carry the 0xFFFFFFFF
// sentinel, meaning the true sizes live in a ZIP64 extra-field sub-record.
func (lf LocalFile) IsZip64() bool {
	return lf.rawCompressedSize() == 0xffffffff && lf.rawUncompressedSize() == 0xffffffff
}

// FileName is the raw file-name bytes.
func (lf LocalFile) FileName() []byte {
	return lf.h(headerSize)[:lf.nameLen]
}

// ExtraField is the raw extra-field bytes (the chain of sub-records).
func (lf LocalFile) ExtraField() []byte {
	return lf.h(headerSize + lf.nameLen)[:lf.extraLen]
}

// zip64Sizes scans the extra-field chain for the ZIP64 sub-record and
// returns (uncompressed, compressed). It is an error to call this when
// IsZip64 is false and no sub-record exists.
func (lf LocalFile) zip64Sizes() (uncompressed, compressed uint64, err error) {
	ef := lf.ExtraField()
	i := 0
	for i+4 <= len(ef) {
		id := bitio.Uint16(ef, i)
		size := int(bitio.Uint16(ef, i+2))
		dataStart := i + 4
		if dataStart+size > len(ef) {
			return 0, 0, zerr.ErrMalformedArchive
		}
		if id == zip64ExtraID {
			if size < 16 {
				return 0, 0, zerr.ErrMalformedArchive
			}
			data := ef[dataStart : dataStart+size]
			return bitio.Uint64(data, 0), bitio.Uint64(data, 8), nil
		}
		i = dataStart + size
	}
	return 0, 0, zerr.ErrMalformedArchive
}

// effectiveCompressedSizeRaw resolves the compressed size used to locate the
// payload and data descriptor, applying step 2 of the derivation (ZIP64
// override) but not step 3 (data-descriptor override, which can only be read
// once the payload offset — derived from this very value — is known).
func (lf LocalFile) effectiveCompressedSizeRaw() (uint64, error) {
	if !lf.IsZip64() {
		return uint64(lf.rawCompressedSize()), nil
	}
	_, compressed, err := lf.zip64Sizes()
	return compressed, err
}

func (lf LocalFile) dataDescriptorLen(payloadEnd int) (int, error) {
	// crc32 is always a u32; compressed/uncompressed size are each a u32 in
	// the 32-bit descriptor (4+4+4=12) or a u64 in the ZIP64 descriptor
	// (4+8+8=20).
	base := 12
	if lf.IsZip64() {
		base = 20
	}
	if payloadEnd+4 > len(lf.archive) {
		return 0, zerr.ErrMalformedArchive
	}
	if bitio.Uint32(lf.archive, payloadEnd) == dataDescriptorMagic {
		return base + 4, nil
	}
	return base, nil
}

// descriptorFields reads the trailing data descriptor's (crc32, compressed,
// uncompressed) fields, accounting for the optional signature and the
// 32/64-bit field width implied by IsZip64.
func (lf LocalFile) descriptorFields() (crc32 uint32, compressed, uncompressed uint64, err error) {
	tailStart := lf.off + headerSize + lf.nameLen + lf.extraLen
	compSize, err := lf.effectiveCompressedSizeRaw()
	if err != nil {
		return 0, 0, 0, err
	}
	ptr := tailStart + int(compSize)

	if ptr+4 > len(lf.archive) {
		return 0, 0, 0, zerr.ErrMalformedArchive
	}
	// Skip the optional signature only when it's actually present — this is
	// ambiguous with a plaintext CRC-32 that happens to equal the magic, a
	// hazard documented rather than resolved (see the open questions).
	if bitio.Uint32(lf.archive, ptr) == dataDescriptorMagic {
		ptr += 4
	}

	if lf.IsZip64() {
		if ptr+20 > len(lf.archive) {
			return 0, 0, 0, zerr.ErrMalformedArchive
		}
		crc32 = bitio.Uint32(lf.archive, ptr)
		compressed = bitio.Uint64(lf.archive, ptr+4)
		uncompressed = bitio.Uint64(lf.archive, ptr+12)
		return crc32, compressed, uncompressed, nil
	}

	if ptr+12 > len(lf.archive) {
		return 0, 0, 0, zerr.ErrMalformedArchive
	}
	crc32 = bitio.Uint32(lf.archive, ptr)
	compressed = uint64(bitio.Uint32(lf.archive, ptr+4))
	uncompressed = uint64(bitio.Uint32(lf.archive, ptr+8))
	return crc32, compressed, uncompressed, nil
}

// EffectiveCRC32 applies step 3 of the derivation rule on top of the raw
// header CRC.
func (lf LocalFile) EffectiveCRC32() uint32 {
	if !lf.HasDataDescriptor() {
		return lf.rawCRC32()
	}
	crc32, _, _, err := lf.descriptorFields()
	if err != nil {
		return lf.rawCRC32()
	}
	return crc32
}

// EffectiveCompressedSize applies steps 2 and 3 of the derivation rule.
func (lf LocalFile) EffectiveCompressedSize() uint64 {
	size, err := lf.effectiveCompressedSizeRaw()
	if err != nil {
		return 0
	}
	if lf.HasDataDescriptor() {
		_, compressed, _, err := lf.descriptorFields()
		if err == nil {
			return compressed
		}
	}
	return size
}

// EffectiveUncompressedSize applies steps 2 and 3 of the derivation rule.
func (lf LocalFile) EffectiveUncompressedSize() uint64 {
	var size uint64
	if lf.IsZip64() {
		uncompressed, _, err := lf.zip64Sizes()
		if err != nil {
			return 0
		}
		size = uncompressed
	} else {
		size = uint64(lf.rawUncompressedSize())
	}
	if lf.HasDataDescriptor() {
		_, _, uncompressed, err := lf.descriptorFields()
		if err == nil {
			return uncompressed
		}
	}
	return size
}

// CompressedPayload is the raw payload bytes (including the 12-byte
// ZipCrypto header, when encrypted).
func (lf LocalFile) CompressedPayload() []byte {
	tailStart := lf.off + headerSize + lf.nameLen + lf.extraLen
	size := lf.EffectiveCompressedSize()
	return lf.archive[tailStart : tailStart+int(size)]
}
