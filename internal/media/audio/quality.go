package audio

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/go-flac/go-flac"
)

// Quality describes a FLAC stream.
type Quality struct {
	BitDepth   int
	SampleRate int
	Channels   int
	Duration   time.Duration
	Size       int64
}

// FLACStreamInfo reads STREAMINFO from a FLAC file. Only the metadata blocks
// are read; audio frames are never loaded.
func FLACStreamInfo(path string) (Quality, error) {
	file, err := os.Open(path)
	if err != nil {
		return Quality{}, err
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return Quality{}, err
	}
	f, err := flac.ParseMetadata(bufio.NewReader(file))
	if err != nil {
		return Quality{}, fmt.Errorf("parse flac %s: %w", path, err)
	}
	stream, err := f.GetStreamInfo()
	if err != nil {
		return Quality{}, fmt.Errorf("flac stream info %s: %w", path, err)
	}
	q := Quality{
		BitDepth:   stream.BitDepth,
		SampleRate: stream.SampleRate,
		Channels:   stream.ChannelCount,
		Size:       info.Size(),
	}
	if stream.SampleRate > 0 {
		q.Duration = time.Duration(float64(stream.SampleCount) / float64(stream.SampleRate) * float64(time.Second))
	}
	return q, nil
}

// Summary renders "24bit/96.0kHz/2ch".
func (q Quality) Summary() string {
	return fmt.Sprintf("%dbit/%.1fkHz/%dch", q.BitDepth, float64(q.SampleRate)/1000, q.Channels)
}

// Better reports whether q ranks above other by bit depth, then sample rate,
// then file size.
func (q Quality) Better(other Quality) bool {
	if q.BitDepth != other.BitDepth {
		return q.BitDepth > other.BitDepth
	}
	if q.SampleRate != other.SampleRate {
		return q.SampleRate > other.SampleRate
	}
	return q.Size > other.Size
}
