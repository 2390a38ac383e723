package testsupport

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"sort"
	"strings"
	"testing"

	"mediakit/internal/geo"
)

// PhotoMeta describes the EXIF fields written by WriteJPEG. Timestamps use
// the EXIF layout "2006:01:02 15:04:05"; empty values are omitted.
type PhotoMeta struct {
	DateTimeOriginal string
	DateTime         string
	GPS              *geo.Coordinate
	// EmptyGPS writes a GPS IFD without coordinate tags.
	EmptyGPS bool
}

func (m PhotoMeta) empty() bool {
	return m.DateTimeOriginal == "" && m.DateTime == "" && m.GPS == nil && !m.EmptyGPS
}

// WriteJPEG writes a small valid JPEG carrying the requested EXIF fields.
func WriteJPEG(t testing.TB, path string, meta PhotoMeta) {
	t.Helper()
	writeBytes(t, path, JPEGBytes(t, meta))
}

// JPEGBytes encodes an 8x8 JPEG and splices an APP1 EXIF segment after SOI.
func JPEGBytes(t testing.TB, meta PhotoMeta) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 128, A: 255})
		}
	}
	var encoded bytes.Buffer
	if err := jpeg.Encode(&encoded, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	raw := encoded.Bytes()
	if meta.empty() {
		return raw
	}

	payload := append([]byte("Exif\x00\x00"), buildTIFF(meta)...)
	var out bytes.Buffer
	out.Write(raw[:2])
	out.Write([]byte{0xFF, 0xE1})
	_ = binary.Write(&out, binary.BigEndian, uint16(len(payload)+2))
	out.Write(payload)
	out.Write(raw[2:])
	return out.Bytes()
}

type tiffEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

const (
	tiffASCII    = 2
	tiffLong     = 4
	tiffRational = 5
)

func asciiEntry(tag uint16, value string) tiffEntry {
	data := append([]byte(value), 0)
	return tiffEntry{tag: tag, typ: tiffASCII, count: uint32(len(data)), data: data}
}

func dmsEntry(tag uint16, value float64) tiffEntry {
	dms := geo.ToDMS(value)
	data := make([]byte, 0, 24)
	for _, r := range dms {
		data = binary.LittleEndian.AppendUint32(data, uint32(r.Num))
		data = binary.LittleEndian.AppendUint32(data, uint32(r.Den))
	}
	return tiffEntry{tag: tag, typ: tiffRational, count: 3, data: data}
}

func longEntry(tag uint16, value uint32) tiffEntry {
	return tiffEntry{tag: tag, typ: tiffLong, count: 1, data: binary.LittleEndian.AppendUint32(nil, value)}
}

// buildTIFF lays out IFD0, the Exif IFD, and the GPS IFD back to back,
// followed by a data area for values wider than four bytes.
func buildTIFF(meta PhotoMeta) []byte {
	var ifd0, exifIFD, gpsIFD []tiffEntry
	if meta.DateTime != "" {
		ifd0 = append(ifd0, asciiEntry(0x0132, meta.DateTime))
	}
	if meta.DateTimeOriginal != "" {
		exifIFD = append(exifIFD, asciiEntry(0x9003, meta.DateTimeOriginal))
	}
	if meta.GPS != nil {
		gpsIFD = append(gpsIFD,
			asciiEntry(0x0001, meta.GPS.LatRef()),
			dmsEntry(0x0002, meta.GPS.Lat),
			asciiEntry(0x0003, meta.GPS.LonRef()),
			dmsEntry(0x0004, meta.GPS.Lon),
		)
	} else if meta.EmptyGPS {
		gpsIFD = append(gpsIFD, tiffEntry{tag: 0x0000, typ: 1, count: 4, data: []byte{2, 3, 0, 0}})
	}

	ifdSize := func(n int) uint32 { return uint32(2 + 12*n + 4) }
	pointers := 0
	if len(exifIFD) > 0 {
		pointers++
	}
	if len(gpsIFD) > 0 {
		pointers++
	}
	offset0 := uint32(8)
	offsetExif := offset0 + ifdSize(len(ifd0)+pointers)
	offsetGPS := offsetExif
	if len(exifIFD) > 0 {
		offsetGPS += ifdSize(len(exifIFD))
	}
	dataStart := offsetGPS
	if len(gpsIFD) > 0 {
		dataStart += ifdSize(len(gpsIFD))
	}
	if len(exifIFD) > 0 {
		ifd0 = append(ifd0, longEntry(0x8769, offsetExif))
	}
	if len(gpsIFD) > 0 {
		ifd0 = append(ifd0, longEntry(0x8825, offsetGPS))
	}

	var head, data bytes.Buffer
	head.WriteString("II")
	_ = binary.Write(&head, binary.LittleEndian, uint16(42))
	_ = binary.Write(&head, binary.LittleEndian, offset0)

	writeIFD := func(entries []tiffEntry) {
		sort.Slice(entries, func(i, j int) bool { return entries[i].tag < entries[j].tag })
		_ = binary.Write(&head, binary.LittleEndian, uint16(len(entries)))
		for _, entry := range entries {
			_ = binary.Write(&head, binary.LittleEndian, entry.tag)
			_ = binary.Write(&head, binary.LittleEndian, entry.typ)
			_ = binary.Write(&head, binary.LittleEndian, entry.count)
			if len(entry.data) <= 4 {
				inline := make([]byte, 4)
				copy(inline, entry.data)
				head.Write(inline)
				continue
			}
			_ = binary.Write(&head, binary.LittleEndian, dataStart+uint32(data.Len()))
			data.Write(entry.data)
			if data.Len()%2 == 1 {
				data.WriteByte(0)
			}
		}
		_ = binary.Write(&head, binary.LittleEndian, uint32(0))
	}
	writeIFD(ifd0)
	if len(exifIFD) > 0 {
		writeIFD(exifIFD)
	}
	if len(gpsIFD) > 0 {
		writeIFD(gpsIFD)
	}
	return append(head.Bytes(), data.Bytes()...)
}

// FLACMeta describes the stream info and vorbis comments written by WriteFLAC.
type FLACMeta struct {
	SampleRate int
	BitDepth   int
	Channels   int
	// Samples is the total sample count per channel.
	Samples int64
	// Comments are "KEY=value" vorbis comment entries.
	Comments []string
	// Padding appends bytes after the metadata to vary file size.
	Padding int
}

// WriteFLAC writes a metadata-only FLAC file: STREAMINFO, a vorbis comment
// block, and optional trailing padding bytes standing in for audio frames.
func WriteFLAC(t testing.TB, path string, meta FLACMeta) {
	t.Helper()
	if meta.SampleRate == 0 {
		meta.SampleRate = 44100
	}
	if meta.BitDepth == 0 {
		meta.BitDepth = 16
	}
	if meta.Channels == 0 {
		meta.Channels = 2
	}
	if meta.Samples == 0 {
		meta.Samples = int64(meta.SampleRate) * 3
	}

	var buf bytes.Buffer
	buf.WriteString("fLaC")

	streamInfo := make([]byte, 0, 34)
	streamInfo = binary.BigEndian.AppendUint16(streamInfo, 4096)
	streamInfo = binary.BigEndian.AppendUint16(streamInfo, 4096)
	streamInfo = append(streamInfo, 0, 0, 0, 0, 0, 0)
	packed := uint64(meta.SampleRate)<<44 | uint64(meta.Channels-1)<<41 | uint64(meta.BitDepth-1)<<36 | uint64(meta.Samples)&0xFFFFFFFFF
	streamInfo = binary.BigEndian.AppendUint64(streamInfo, packed)
	streamInfo = append(streamInfo, make([]byte, 16)...)
	writeFLACBlock(&buf, 0, false, streamInfo)

	vendor := "mediakit tests"
	comment := binary.LittleEndian.AppendUint32(nil, uint32(len(vendor)))
	comment = append(comment, vendor...)
	comment = binary.LittleEndian.AppendUint32(comment, uint32(len(meta.Comments)))
	for _, entry := range meta.Comments {
		comment = binary.LittleEndian.AppendUint32(comment, uint32(len(entry)))
		comment = append(comment, entry...)
	}
	writeFLACBlock(&buf, 4, true, comment)

	buf.Write(bytes.Repeat([]byte{0xFF, 0xF8}, meta.Padding/2+1))
	writeBytes(t, path, buf.Bytes())
}

func writeFLACBlock(buf *bytes.Buffer, blockType byte, last bool, data []byte) {
	header := blockType
	if last {
		header |= 0x80
	}
	buf.WriteByte(header)
	buf.Write([]byte{byte(len(data) >> 16), byte(len(data) >> 8), byte(len(data))})
	buf.Write(data)
}

// Comments builds vorbis comment entries from alternating key/value pairs.
func Comments(pairs ...string) []string {
	out := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, strings.ToUpper(pairs[i])+"="+pairs[i+1])
	}
	return out
}
