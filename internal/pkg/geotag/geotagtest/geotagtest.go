// Package geotagtest builds small images with hand-written EXIF GPS
// directories for tests.
package geotagtest

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"sort"
)

// TIFF tag ids and types used by the builder.
const (
	tagOrientation = 0x0112
	tagGPSPointer  = 0x8825
	tagGPSLatRef   = 0x0001
	tagGPSLat      = 0x0002
	tagGPSLonRef   = 0x0003
	tagGPSLon      = 0x0004

	typeASCII    = 2
	typeShort    = 3
	typeLong     = 4
	typeRational = 5
)

// Rational is an unsigned EXIF rational.
type Rational struct {
	Num, Den uint32
}

// DMS returns the three rationals of a degrees/minutes/seconds angle.
// Seconds keep two decimals.
func DMS(deg, min uint32, sec float64) []Rational {
	return []Rational{{deg, 1}, {min, 1}, {uint32(sec*100 + 0.5), 100}}
}

// GPS lists the GPS fields to embed. Empty refs and nil angles are omitted.
type GPS struct {
	LatRef string
	Lat    []Rational
	LonRef string
	Lon    []Rational
}

// Coordinates is a complete GPS directory for the given angles.
func Coordinates(latRef string, lat []Rational, lonRef string, lon []Rational) *GPS {
	return &GPS{LatRef: latRef, Lat: lat, LonRef: lonRef, Lon: lon}
}

type entry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

// TIFF returns a little-endian TIFF/EXIF block. IFD0 always carries an
// orientation tag; the GPS directory is present only when gps is not nil.
func TIFF(gps *GPS) []byte {
	le := binary.LittleEndian

	ifd0 := []entry{{tag: tagOrientation, typ: typeShort, count: 1, data: le.AppendUint16(nil, 1)}}
	var gpsEntries []entry
	if gps != nil {
		if gps.LatRef != "" {
			gpsEntries = append(gpsEntries, ascii(tagGPSLatRef, gps.LatRef))
		}
		if gps.Lat != nil {
			gpsEntries = append(gpsEntries, rationals(tagGPSLat, gps.Lat))
		}
		if gps.LonRef != "" {
			gpsEntries = append(gpsEntries, ascii(tagGPSLonRef, gps.LonRef))
		}
		if gps.Lon != nil {
			gpsEntries = append(gpsEntries, rationals(tagGPSLon, gps.Lon))
		}
		// Placeholder, patched once the GPS directory offset is known.
		ifd0 = append(ifd0, entry{tag: tagGPSPointer, typ: typeLong, count: 1, data: make([]byte, 4)})
	}

	const ifd0Offset = 8
	gpsOffset := uint32(ifd0Offset + dirSize(ifd0))
	if gps != nil {
		ifd0[len(ifd0)-1].data = le.AppendUint32(nil, gpsOffset)
	}

	var buf bytes.Buffer
	buf.WriteString("II")
	buf.Write(le.AppendUint16(nil, 42))
	buf.Write(le.AppendUint32(nil, ifd0Offset))
	buf.Write(encodeDir(ifd0, ifd0Offset))
	if gps != nil {
		buf.Write(encodeDir(gpsEntries, gpsOffset))
	}
	return buf.Bytes()
}

// JPEG returns a decodable JPEG image with the TIFF block of gps in an APP1
// segment.
func JPEG(gps *GPS) []byte {
	payload := append([]byte("Exif\x00\x00"), TIFF(gps)...)
	length := len(payload) + 2

	plain := PlainJPEG()
	out := []byte{0xFF, 0xD8, 0xFF, 0xE1, byte(length >> 8), byte(length)}
	out = append(out, payload...)
	return append(out, plain[2:]...)
}

// PlainJPEG returns a small JPEG image without any metadata.
func PlainJPEG() []byte {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, sample(), nil); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// PNG returns a small PNG image, a format without EXIF support here.
func PNG() []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, sample()); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func sample() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), B: 128, A: 255})
		}
	}
	return img
}

func ascii(tag uint16, s string) entry {
	data := append([]byte(s), 0)
	return entry{tag: tag, typ: typeASCII, count: uint32(len(data)), data: data}
}

func rationals(tag uint16, rs []Rational) entry {
	le := binary.LittleEndian
	var data []byte
	for _, r := range rs {
		data = le.AppendUint32(data, r.Num)
		data = le.AppendUint32(data, r.Den)
	}
	return entry{tag: tag, typ: typeRational, count: uint32(len(rs)), data: data}
}

// dirSize is the size of an encoded directory including its out-of-line data.
func dirSize(entries []entry) int {
	n := 2 + 12*len(entries) + 4
	for _, e := range entries {
		if len(e.data) > 4 {
			n += len(e.data)
		}
	}
	return n
}

// encodeDir encodes a directory located at offset, followed by the values
// that do not fit in an entry. The next-directory pointer is always zero.
func encodeDir(entries []entry, offset uint32) []byte {
	le := binary.LittleEndian
	sort.Slice(entries, func(i, j int) bool { return entries[i].tag < entries[j].tag })

	dataOffset := offset + uint32(2+12*len(entries)+4)
	var dir, data []byte
	dir = le.AppendUint16(dir, uint16(len(entries)))
	for _, e := range entries {
		dir = le.AppendUint16(dir, e.tag)
		dir = le.AppendUint16(dir, e.typ)
		dir = le.AppendUint32(dir, e.count)
		if len(e.data) <= 4 {
			inline := make([]byte, 4)
			copy(inline, e.data)
			dir = append(dir, inline...)
			continue
		}
		dir = le.AppendUint32(dir, dataOffset+uint32(len(data)))
		data = append(data, e.data...)
	}
	dir = le.AppendUint32(dir, 0)
	return append(dir, data...)
}
