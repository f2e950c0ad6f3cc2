package domain

import "time"

// ChartSnapshot is one stored org chart blob. Version increases by one on
// every write.
type ChartSnapshot struct {
	Key       string
	Blob      []byte
	Version   int64
	UpdatedAt time.Time
}
