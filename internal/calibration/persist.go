package calibration

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/johns/guildcraft/internal/climate"
	"github.com/johns/guildcraft/internal/metrics"
)

// CompressedExt marks zstd-compressed table files; anything else is
// read and written as plain JSON.
const CompressedExt = ".zst"

// fileForm is the on-disk shape: tier key -> metric key -> rank key
// ("p01".."p99") -> raw-value order statistic.
type fileForm map[string]map[string]map[string]float64

// Save writes the table to path, zstd-compressing when the path carries
// the .zst extension.
func Save(t *Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create calibration file: %w", err)
	}

	var w io.Writer = f
	var encoder *zstd.Encoder
	if strings.HasSuffix(path, CompressedExt) {
		encoder, err = zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return fmt.Errorf("create zstd encoder: %w", err)
		}
		w = encoder
	}

	out := make(fileForm)
	for _, tier := range t.Tiers() {
		byMetric := make(map[string]map[string]float64)
		for _, m := range metrics.All() {
			e, ok := t.Entry(tier, m)
			if !ok {
				continue
			}
			points := make(map[string]float64, NumRanks)
			for i, rank := range ranks {
				points[rankKey(rank)] = e[i]
			}
			byMetric[m.Key()] = points
		}
		out[tier.Key()] = byMetric
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		f.Close()
		return fmt.Errorf("encode calibration table: %w", err)
	}
	if encoder != nil {
		if err := encoder.Close(); err != nil {
			f.Close()
			return fmt.Errorf("finalize compression: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close calibration file: %w", err)
	}
	return nil
}

// LoadTable reads a table from path, transparently decompressing .zst
// files, and validates tier keys, metric keys, rank coverage, and
// percentile monotonicity.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open calibration file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, CompressedExt) {
		decoder, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
		defer decoder.Close()
		r = decoder
	}

	var raw fileForm
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode calibration table: %w", err)
	}

	t := NewTable()
	for tierKey, byMetric := range raw {
		tier, err := climate.ParseTier(tierKey)
		if err != nil {
			return nil, fmt.Errorf("calibration table: %w", err)
		}
		for metricKey, points := range byMetric {
			m, err := metrics.ParseMetric(metricKey)
			if err != nil {
				return nil, fmt.Errorf("calibration table %s: %w", tierKey, err)
			}
			var e Entry
			for i, rank := range ranks {
				v, ok := points[rankKey(rank)]
				if !ok {
					return nil, fmt.Errorf("calibration table %s/%s: missing rank %s",
						tierKey, metricKey, rankKey(rank))
				}
				e[i] = v
			}
			if err := t.Set(tier, m, e); err != nil {
				return nil, fmt.Errorf("calibration table: %w", err)
			}
		}
	}
	return t, nil
}
