// Package testutil builds minimal JPEG fixtures with embedded EXIF GPS data.
package testutil

import (
	"bytes"
	"encoding/binary"
)

// Rational is an EXIF rational value
type Rational struct {
	Num uint32
	Den uint32
}

// DMS builds the conventional degree/minute/second triple. Seconds are scaled
// by 100 to keep fractional precision.
func DMS(deg, min uint32, sec float64) []Rational {
	return []Rational{
		{Num: deg, Den: 1},
		{Num: min, Den: 1},
		{Num: uint32(sec * 100), Den: 100},
	}
}

// Decimal builds a single-rational coordinate scaled by 1e6
func Decimal(value float64) []Rational {
	return []Rational{{Num: uint32(value * 1e6), Den: 1e6}}
}

const (
	tagGPSIFDPointer   = 0x8825
	tagGPSLatitudeRef  = 0x0001
	tagGPSLatitude     = 0x0002
	tagGPSLongitudeRef = 0x0003
	tagGPSLongitude    = 0x0004

	typeASCII    = 2
	typeLong     = 4
	typeRational = 5
)

// GPSJPEG builds a minimal JPEG carrying only an EXIF APP1 segment with the
// given GPS tags. Refs are single letters ("N", "S", "E", "W").
func GPSJPEG(latRef string, lat []Rational, lngRef string, lng []Rational) []byte {
	tiff := buildTIFF(latRef, lat, lngRef, lng)

	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8}) // SOI
	buf.Write([]byte{0xFF, 0xE1}) // APP1

	length := 2 + 6 + len(tiff)
	buf.Write([]byte{byte(length >> 8), byte(length)})
	buf.WriteString("Exif\x00\x00")
	buf.Write(tiff)

	buf.Write([]byte{0xFF, 0xD9}) // EOI
	return buf.Bytes()
}

// PlainJPEG builds a JPEG with no EXIF segment at all
func PlainJPEG() []byte {
	return []byte{0xFF, 0xD8, 0xFF, 0xD9}
}

func buildTIFF(latRef string, lat []Rational, lngRef string, lng []Rational) []byte {
	le := binary.LittleEndian

	// Header (8) + IFD0 with one entry (18) + GPS IFD with four entries (54)
	const ifd0Offset = 8
	const gpsIFDOffset = ifd0Offset + 2 + 1*12 + 4
	const dataOffset = gpsIFDOffset + 2 + 4*12 + 4

	latOffset := uint32(dataOffset)
	lngOffset := latOffset + uint32(8*len(lat))

	var buf bytes.Buffer

	// TIFF header, little-endian
	buf.WriteString("II")
	writeU16(&buf, le, 0x002A)
	writeU32(&buf, le, ifd0Offset)

	// IFD0: a single pointer to the GPS sub-IFD
	writeU16(&buf, le, 1)
	writeEntry(&buf, le, tagGPSIFDPointer, typeLong, 1, gpsIFDOffset)
	writeU32(&buf, le, 0)

	// GPS IFD
	writeU16(&buf, le, 4)
	writeASCIIEntry(&buf, le, tagGPSLatitudeRef, latRef)
	writeEntry(&buf, le, tagGPSLatitude, typeRational, uint32(len(lat)), latOffset)
	writeASCIIEntry(&buf, le, tagGPSLongitudeRef, lngRef)
	writeEntry(&buf, le, tagGPSLongitude, typeRational, uint32(len(lng)), lngOffset)
	writeU32(&buf, le, 0)

	for _, r := range lat {
		writeU32(&buf, le, r.Num)
		writeU32(&buf, le, r.Den)
	}
	for _, r := range lng {
		writeU32(&buf, le, r.Num)
		writeU32(&buf, le, r.Den)
	}

	return buf.Bytes()
}

func writeEntry(buf *bytes.Buffer, le binary.ByteOrder, tag, typ uint16, count, value uint32) {
	writeU16(buf, le, tag)
	writeU16(buf, le, typ)
	writeU32(buf, le, count)
	writeU32(buf, le, value)
}

// writeASCIIEntry writes a two-character ref ("N\0") inline in the value field
func writeASCIIEntry(buf *bytes.Buffer, le binary.ByteOrder, tag uint16, ref string) {
	writeU16(buf, le, tag)
	writeU16(buf, le, typeASCII)
	writeU32(buf, le, 2)

	value := [4]byte{}
	if len(ref) > 0 {
		value[0] = ref[0]
	}
	buf.Write(value[:])
}

func writeU16(buf *bytes.Buffer, le binary.ByteOrder, v uint16) {
	b := make([]byte, 2)
	le.PutUint16(b, v)
	buf.Write(b)
}

func writeU32(buf *bytes.Buffer, le binary.ByteOrder, v uint32) {
	b := make([]byte, 4)
	le.PutUint32(b, v)
	buf.Write(b)
}
