// Package tinyzlib is a minimal zlib-format encoder for the debug timing
// ring's post-mortem dump. Adapted from the teacher's tinycompress/zlib.go
// (which compresses the Klipper-style command dictionary before sending it
// over USB): the original comment there explains why — TinyGo has no
// "real" deflate on the LED core's memory budget, so both writers emit a
// single stored (uncompressed) DEFLATE block wrapped in valid zlib framing
// rather than attempting LZ77 matching. RPLed reuses the identical
// stored-block trick for debug.DumpTiming's output, which an external
// rpled-debug tool (out of scope here) can feed straight to any standard
// zlib reader.
package tinyzlib

import "hash/adler32"

// Compress wraps input in a single stored-block zlib stream: 2-byte zlib
// header, a final-block DEFLATE header with LEN/NLEN, the raw bytes, and a
// trailing big-endian Adler-32 checksum — byte-for-byte the same framing
// as the teacher's ZlibEncoder.Compress, minus the reusable scratch buffer
// that only matters under the teacher's allocation-during-Write
// constraint (the debug ring dump is bounded and already copied).
func Compress(input []byte) []byte {
	if len(input) == 0 {
		return nil
	}

	out := make([]byte, 0, len(input)+11)
	out = append(out, 0x78, 0x9C) // zlib header: CMF, FLG

	out = append(out, 0x01) // DEFLATE: final block, stored (no compression)

	length := uint16(len(input))
	nlength := ^length
	out = append(out, byte(length), byte(length>>8))
	out = append(out, byte(nlength), byte(nlength>>8))

	out = append(out, input...)

	checksum := adler32.Checksum(input)
	out = append(out, byte(checksum>>24), byte(checksum>>16), byte(checksum>>8), byte(checksum))

	return out
}

// Decompress reverses Compress for a single stored block, returning the
// original bytes or ok=false if the framing or checksum doesn't match.
func Decompress(compressed []byte) (out []byte, ok bool) {
	if len(compressed) < 11 || compressed[0] != 0x78 {
		return nil, false
	}
	if compressed[2] != 0x01 {
		return nil, false // only the stored-final-block form this package writes
	}
	length := uint16(compressed[3]) | uint16(compressed[4])<<8
	nlength := uint16(compressed[5]) | uint16(compressed[6])<<8
	if length != ^nlength {
		return nil, false
	}
	dataStart := 7
	dataEnd := dataStart + int(length)
	if dataEnd+4 != len(compressed) {
		return nil, false
	}
	data := compressed[dataStart:dataEnd]
	want := uint32(compressed[dataEnd])<<24 | uint32(compressed[dataEnd+1])<<16 |
		uint32(compressed[dataEnd+2])<<8 | uint32(compressed[dataEnd+3])
	if adler32.Checksum(data) != want {
		return nil, false
	}
	return data, true
}
