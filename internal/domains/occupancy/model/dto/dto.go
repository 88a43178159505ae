package dto

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"hotel/internal/engine"
	"hotel/shared/constant"
	"strconv"
)

type RangeRequest struct {
	Start string `json:"start" validate:"required,date"`
	End   string `json:"end"   validate:"required,date"`
}

type OccupancyResponse struct {
	Date           string  `json:"date"`
	TotalRooms     int     `json:"total_rooms"`
	OccupiedRooms  int     `json:"occupied_rooms"`
	AvailableRooms int     `json:"available_rooms"`
	OccupancyRate  float64 `json:"occupancy_rate"`
}

func (r *OccupancyResponse) FromStats(stats engine.OccupancyStats) {
	r.Date = stats.Date.Format(constant.DateFormat)
	r.TotalRooms = stats.TotalRooms
	r.OccupiedRooms = stats.OccupiedRooms
	r.AvailableRooms = stats.AvailableRooms
	r.OccupancyRate = stats.OccupancyRate
}

type RangeResponse struct {
	OccupancyResponse
	End string `json:"end"`
}

type SeriesResponse struct {
	Start   string              `json:"start"`
	End     string              `json:"end"`
	Days    []OccupancyResponse `json:"days"`
	Average float64             `json:"average_occupancy_rate"`
}

func (r *SeriesResponse) FromStats(series []engine.OccupancyStats) {
	r.Days = make([]OccupancyResponse, len(series))

	var sum float64

	for i, stats := range series {
		r.Days[i].FromStats(stats)
		sum += stats.OccupancyRate
	}

	if len(series) > 0 {
		r.Start = r.Days[0].Date
		r.End = r.Days[len(series)-1].Date
		r.Average = sum / float64(len(series))
	}
}

var csvHeader = []string{"date", "total_rooms", "occupied_rooms", "available_rooms", "occupancy_rate"}

// CSV renders the series one day per row under a header row.
func (r *SeriesResponse) CSV() ([]byte, error) {
	var buf bytes.Buffer

	writer := csv.NewWriter(&buf)
	if err := writer.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, day := range r.Days {
		row := []string{
			day.Date,
			strconv.Itoa(day.TotalRooms),
			strconv.Itoa(day.OccupiedRooms),
			strconv.Itoa(day.AvailableRooms),
			strconv.FormatFloat(day.OccupancyRate, 'f', 4, 64),
		}

		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

type ExportResponse struct {
	URL        string `json:"url"`
	ObjectName string `json:"object_name"`
	Days       int    `json:"days"`
}
