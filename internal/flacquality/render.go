package flacquality

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by Write.
const (
	FormatList  = "list"
	FormatCSV   = "csv"
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formats lists every supported output format.
var Formats = []string{FormatList, FormatCSV, FormatTable, FormatJSON, FormatYAML}

// Header is the column set shared by the CSV and table renderings.
var Header = []string{"Album", "Status", "Bit Depth (bits)", "Sample Rate (Hz)", "Lossy-Sourced", "Tracks"}

// Rows flattens the report: one row per consolidated album, otherwise one
// row per track.
func (r Report) Rows() [][]string {
	var rows [][]string
	for _, album := range r.Albums {
		if sum, ok := album.Consolidated(); ok {
			rows = append(rows, []string{
				album.Path,
				"Consolidated",
				strconv.Itoa(sum.BitDepth),
				strconv.Itoa(sum.SampleRate),
				sum.Lossy,
				strconv.Itoa(sum.Tracks),
			})
			continue
		}
		for _, t := range album.Tracks {
			name := filepath.Join(album.Path, filepath.Base(t.File))
			if t.Error != "" {
				rows = append(rows, []string{name, "Error", "", "", t.Error, "1"})
				continue
			}
			rows = append(rows, []string{
				name,
				"Individual",
				strconv.Itoa(t.BitDepth),
				strconv.Itoa(t.SampleRate),
				t.Lossy,
				"1",
			})
		}
	}
	return rows
}

// Write renders r in one of the text formats. FormatTable is rendered by the
// CLI and is rejected here.
func Write(w io.Writer, r Report, format string) error {
	switch format {
	case "", FormatList:
		return writeList(w, r)
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(Header); err != nil {
			return err
		}
		if err := cw.WriteAll(r.Rows()); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r.view())
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r.view()); err != nil {
			return fmt.Errorf("write yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func writeList(w io.Writer, r Report) error {
	for _, album := range r.Albums {
		if sum, ok := album.Consolidated(); ok {
			if _, err := fmt.Fprintf(w, "\n[ALBUM] %s (All %d tracks):\n  - Bit Depth: %d-bit\n  - Sample Rate: %d Hz\n  - Lossy-Sourced: %s\n",
				album.Path, sum.Tracks, sum.BitDepth, sum.SampleRate, sum.Lossy); err != nil {
				return err
			}
			if sum.Duration > 0 {
				if _, err := fmt.Fprintf(w, "  - Length: %s\n", FormatLength(sum.Duration)); err != nil {
					return err
				}
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "\n[ALBUM] %s (Inconsistent tracks):\n", album.Path); err != nil {
			return err
		}
		for _, t := range album.Tracks {
			var err error
			if t.Error != "" {
				_, err = fmt.Fprintf(w, "  - %s: error: %s\n", filepath.Base(t.File), t.Error)
			} else {
				_, err = fmt.Fprintf(w, "  - %s: %d-bit, %d Hz, Lossy? %s", filepath.Base(t.File), t.BitDepth, t.SampleRate, t.Lossy)
				if err == nil && t.Duration > 0 {
					_, err = fmt.Fprintf(w, ", %s", FormatLength(t.Duration))
				}
				if err == nil {
					_, err = fmt.Fprintln(w)
				}
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// FormatLength renders seconds as m:ss, or h:mm:ss from one hour up.
func FormatLength(seconds float64) string {
	total := int(math.Round(seconds))
	h, m, s := total/3600, total%3600/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

type albumView struct {
	Album        string   `json:"album" yaml:"album"`
	Consolidated *Summary `json:"consolidated,omitempty" yaml:"consolidated,omitempty"`
	Tracks       []Track  `json:"tracks,omitempty" yaml:"tracks,omitempty"`
}

type reportView struct {
	Root   string      `json:"root" yaml:"root"`
	Albums []albumView `json:"albums" yaml:"albums"`
}

// view collapses consolidated albums to their summary.
func (r Report) view() reportView {
	out := reportView{Root: r.Root, Albums: make([]albumView, 0, len(r.Albums))}
	for _, album := range r.Albums {
		v := albumView{Album: album.Path}
		if sum, ok := album.Consolidated(); ok {
			v.Consolidated = &sum
		} else {
			v.Tracks = album.Tracks
		}
		out.Albums = append(out.Albums, v)
	}
	return out
}
