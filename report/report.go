// Package report renders comparison results into portable artifacts (JSON,
// CSV), with optional transparent compression for large vocabularies.
package report

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"sort"
	"strconv"

	gojson "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/embdrift"
)

// Compression defines the compression algorithm applied to the output stream.
type Compression uint8

const (
	// CompressionNone writes the artifact uncompressed.
	CompressionNone Compression = iota
	// CompressionZstd wraps the output in a zstd stream (better ratio).
	CompressionZstd
	// CompressionLZ4 wraps the output in an lz4 frame (faster).
	CompressionLZ4
)

// ErrInvalidCompression is returned for an unknown compression algorithm.
var ErrInvalidCompression = errors.New("invalid compression algorithm")

// Options holds report rendering options.
type Options struct {
	// Compression selects the output stream compression.
	Compression Compression

	// Pretty indents JSON output for human consumption.
	Pretty bool
}

// DefaultOptions are the default report rendering options.
var DefaultOptions = Options{
	Compression: CompressionNone,
}

// WithCompression wraps the output stream in the given compression codec.
func WithCompression(c Compression) func(o *Options) {
	return func(o *Options) {
		o.Compression = c
	}
}

// WithPretty indents JSON output.
func WithPretty() func(o *Options) {
	return func(o *Options) {
		o.Pretty = true
	}
}

// Record is one key's scores in a rendered report.
type Record struct {
	Key            string  `json:"key"`
	Overlap        float64 `json:"overlap"`
	OrderedOverlap float64 `json:"ordered_overlap"`
	Drift          float64 `json:"drift"`
}

// Records flattens a result's per-key scores into records sorted by key.
func Records(res *embdrift.Result) []Record {
	out := make([]Record, 0, len(res.PerKey))
	for key, score := range res.PerKey {
		out = append(out, Record{
			Key:            key,
			Overlap:        score.Overlap,
			OrderedOverlap: score.OrderedOverlap,
			Drift:          score.LocalDrift,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Summary is the aggregate section of a JSON report. Undefined aggregates
// (zero compared keys) render as null rather than as a fake numeric zero.
type Summary struct {
	MeanOverlap           *float64 `json:"mean_overlap"`
	MedianOverlap         *float64 `json:"median_overlap"`
	WeightedMedianOverlap *float64 `json:"weighted_median_overlap"`
	MeanOrderedOverlap    *float64 `json:"mean_ordered_overlap"`
	Compared              int      `json:"compared"`
	CoverageRatio         float64  `json:"coverage_ratio"`
	OnlyInA               int      `json:"only_in_a"`
	OnlyInB               int      `json:"only_in_b"`
	OnlyInAKeys           []string `json:"only_in_a_keys,omitempty"`
	OnlyInBKeys           []string `json:"only_in_b_keys,omitempty"`
}

type document struct {
	Summary Summary  `json:"summary"`
	Keys    []Record `json:"keys"`
}

// WriteJSON renders the result as a JSON document with a summary section and
// the sorted per-key records.
func WriteJSON(w io.Writer, res *embdrift.Result, optFns ...func(o *Options)) error {
	opts := applyOptions(optFns)

	cw, err := wrapWriter(w, opts.Compression)
	if err != nil {
		return err
	}

	doc := document{
		Summary: Summary{
			MeanOverlap:           num(res.Global.MeanOverlap),
			MedianOverlap:         num(res.Global.MedianOverlap),
			WeightedMedianOverlap: num(res.Global.WeightedMedianOverlap),
			MeanOrderedOverlap:    num(res.Global.MeanOrderedOverlap),
			Compared:              res.Global.Compared,
			CoverageRatio:         res.Global.CoverageRatio,
			OnlyInA:               res.Global.OnlyInA,
			OnlyInB:               res.Global.OnlyInB,
			OnlyInAKeys:           res.Global.Vocabulary.OnlyInA,
			OnlyInBKeys:           res.Global.Vocabulary.OnlyInB,
		},
		Keys: Records(res),
	}

	enc := gojson.NewEncoder(cw)
	if opts.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		cw.Close()
		return err
	}
	return cw.Close()
}

// WriteCSV renders the per-key records as CSV with a header row, sorted by
// key. Aggregates are not part of the CSV artifact.
func WriteCSV(w io.Writer, res *embdrift.Result, optFns ...func(o *Options)) error {
	opts := applyOptions(optFns)

	cw, err := wrapWriter(w, opts.Compression)
	if err != nil {
		return err
	}

	out := csv.NewWriter(cw)
	if err := out.Write([]string{"key", "overlap", "ordered_overlap", "drift"}); err != nil {
		cw.Close()
		return err
	}
	for _, rec := range Records(res) {
		row := []string{
			rec.Key,
			formatFloat(rec.Overlap),
			formatFloat(rec.OrderedOverlap),
			formatFloat(rec.Drift),
		}
		if err := out.Write(row); err != nil {
			cw.Close()
			return err
		}
	}
	out.Flush()
	if err := out.Error(); err != nil {
		cw.Close()
		return err
	}
	return cw.Close()
}

func applyOptions(optFns []func(o *Options)) Options {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// num maps NaN sentinels to nil so they render as JSON null.
func num(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// wrapWriter wraps w in the requested compression codec. The returned writer
// must be closed to flush the stream; closing never closes w itself.
func wrapWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionNone:
		return nopCloser{w}, nil
	case CompressionZstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, ErrInvalidCompression
	}
}
