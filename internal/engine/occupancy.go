package engine

import (
	reservationModel "hotel/internal/domains/reservation/model"
	roomModel "hotel/internal/domains/room/model"
	"time"
)

// OccupancyStats describes how many rooms were held over a period starting at Date.
// TotalRooms counts every room regardless of its administrative flag.
type OccupancyStats struct {
	Date           time.Time `json:"date"`
	TotalRooms     int       `json:"total_rooms"`
	OccupiedRooms  int       `json:"occupied_rooms"`
	AvailableRooms int       `json:"available_rooms"`
	OccupancyRate  float64   `json:"occupancy_rate"`
}

func newStats(date time.Time, totalRooms, occupiedRooms int) OccupancyStats {
	stats := OccupancyStats{
		Date:           date,
		TotalRooms:     totalRooms,
		OccupiedRooms:  occupiedRooms,
		AvailableRooms: totalRooms - occupiedRooms,
	}

	if totalRooms > 0 {
		stats.OccupancyRate = float64(occupiedRooms) / float64(totalRooms)
	}

	return stats
}

func occupiedDuring(reservations []reservationModel.Reservation, period DateRange) int {
	return len(BookedRoomIDs(reservations, period, 0))
}

// ComputeOccupancy counts the distinct rooms held by an active reservation on date,
// i.e. overlapping [date, date+1).
func ComputeOccupancy(rooms []roomModel.Room, reservations []reservationModel.Reservation, date time.Time) OccupancyStats {
	day := SingleDay(date)

	return newStats(day.Start, len(rooms), occupiedDuring(reservations, day))
}

// ComputeRangeOccupancy counts the distinct rooms held at any point of [start, end).
func ComputeRangeOccupancy(rooms []roomModel.Room, reservations []reservationModel.Reservation, start, end time.Time) (OccupancyStats, error) {
	period, err := NewDateRange(start, end)
	if err != nil {
		return OccupancyStats{}, err
	}

	return newStats(period.Start, len(rooms), occupiedDuring(reservations, period)), nil
}

// ComputeOccupancySeries returns one ComputeOccupancy entry per day from start to end inclusive.
func ComputeOccupancySeries(rooms []roomModel.Room, reservations []reservationModel.Reservation, start, end time.Time) ([]OccupancyStats, error) {
	first, last := Day(start), Day(end)
	if last.Before(first) {
		return nil, ErrInvalidDateRange
	}

	active := make([]reservationModel.Reservation, 0, len(reservations))
	for _, reservation := range reservations {
		if reservation.Status.IsActive() {
			active = append(active, reservation)
		}
	}

	series := make([]OccupancyStats, 0, Nights(first, last)+1)
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		series = append(series, ComputeOccupancy(rooms, active, day))
	}

	return series, nil
}
