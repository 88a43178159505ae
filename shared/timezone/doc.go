// Package timezone holds the hotel's clock.
//
// Timestamps (created_at, modified_at) live in the application timezone configured by
// APP_TIMEZONE. Stay dates are calendar days: they are carried as UTC midnight values and
// produced by Date, Today and ParseDate, so that two dates compare by day regardless of
// where the server runs.
//
//	now := timezone.Now()
//	today := timezone.Today()
//	checkIn, err := timezone.ParseDate("2024-05-01")
package timezone
