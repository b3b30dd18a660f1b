package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitriimaksimovdevelop/aquanova/internal/model"
)

// Dataset column headers.
const (
	colPH          = "pH"
	colTemperature = "Temperature"
	colAmmonia     = "Ammonia-Total (as N)"
	colOxygen      = "Dissolved Oxygen"
)

// Fill values for missing or non-numeric cells. Oxygen is stored as
// saturation/10, so its default is already scaled.
const (
	defaultPH          = 7.0
	defaultTemperature = 20.0
	defaultAmmonia     = 0.01
	defaultOxygen      = 7.0
)

// Calibration from the cold-water catchment dataset to tilapia conditions.
const (
	temperatureShift = 15.0
	ammoniaScale     = 0.5
	oxygenDivisor    = 10.0
	oxygenShift      = 1.5
	turbidityBase    = 10.0
	turbiditySwing   = 2.0
	salinityBase     = 15.0
	salinitySwing    = 1.0
)

type row struct {
	ph, temperature, ammonia, oxygen float64
}

// DatasetSource replays a CSV dataset, cycling back to the first row after
// the last. It is safe for concurrent use.
type DatasetSource struct {
	Now func() time.Time

	mu     sync.Mutex
	rows   []row
	cursor int
}

// OpenDataset loads a dataset CSV from path.
func OpenDataset(path string) (*DatasetSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return ReadDataset(f)
}

// ReadDataset loads a dataset CSV from r. The pH, Temperature,
// Ammonia-Total (as N) and Dissolved Oxygen columns are required; other
// columns are ignored.
func ReadDataset(r io.Reader) (*DatasetSource, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range []string{colPH, colTemperature, colAmmonia, colOxygen} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("dataset missing column %q", col)
		}
	}

	var rows []row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		oxygen := cell(rec, idx[colOxygen], math.NaN()) / oxygenDivisor
		if math.IsNaN(oxygen) {
			oxygen = defaultOxygen
		}
		rows = append(rows, row{
			ph:          cell(rec, idx[colPH], defaultPH),
			temperature: cell(rec, idx[colTemperature], defaultTemperature),
			ammonia:     cell(rec, idx[colAmmonia], defaultAmmonia),
			oxygen:      oxygen,
		})
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	return &DatasetSource{rows: rows}, nil
}

// cell parses rec[i] as a float, returning def when absent or unparsable.
func cell(rec []string, i int, def float64) float64 {
	if i >= len(rec) {
		return def
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// Name implements Source.
func (d *DatasetSource) Name() string { return "dataset" }

// Len returns the number of rows in the dataset.
func (d *DatasetSource) Len() int { return len(d.rows) }

// Next implements Source. Turbidity and salinity are not in the dataset and
// are synthesized as slow oscillations of the row cursor.
func (d *DatasetSource) Next(ctx context.Context) (model.Reading, error) {
	if err := ctx.Err(); err != nil {
		return model.Reading{}, err
	}
	d.mu.Lock()
	r := d.rows[d.cursor]
	d.cursor = (d.cursor + 1) % len(d.rows)
	i := float64(d.cursor)
	d.mu.Unlock()

	return model.Reading{
		Timestamp:       clock(d.Now),
		PH:              r.ph,
		Temperature:     r.temperature + temperatureShift,
		Ammonia:         r.ammonia * ammoniaScale,
		DissolvedOxygen: r.oxygen/oxygenDivisor + oxygenShift,
		Turbidity:       turbidityBase + math.Sin(i/10)*turbiditySwing,
		Salinity:        salinityBase + math.Cos(i/10)*salinitySwing,
	}, nil
}
