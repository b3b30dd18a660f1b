// Package source produces live water-quality readings, either replayed from
// a monitoring dataset or generated by a bounded random walk.
package source

import (
	"context"
	"errors"
	"time"

	"github.com/dmitriimaksimovdevelop/aquanova/internal/model"
)

// ErrEmpty is returned when a dataset contains no rows.
var ErrEmpty = errors.New("dataset has no rows")

// Source yields the next live reading.
type Source interface {
	// Name identifies the source in logs and API responses.
	Name() string

	// Next returns the next reading. Timestamp is set to the current time.
	Next(ctx context.Context) (model.Reading, error)
}

// clock returns now, or time.Now when now is nil.
func clock(now func() time.Time) time.Time {
	if now == nil {
		return time.Now().UTC()
	}
	return now()
}
