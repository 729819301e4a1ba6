package dashboard

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/sensordash/internal/sensor"
)

var baseTime = time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)

func makeRecords(values ...float64) []sensor.Record {
	records := make([]sensor.Record, len(values))
	for i, v := range values {
		records[i] = sensor.Record{
			ID:        sensor.ID(fmt.Sprint(i + 1)),
			Value:     v,
			Timestamp: sensor.NewTimestamp(baseTime.Add(time.Duration(i) * 15 * time.Second)),
		}
	}
	return records
}

func makeN(n int) []sensor.Record {
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i * 10)
	}
	return makeRecords(values...)
}
