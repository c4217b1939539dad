// Package util provides utility functions for the backend.
//
//revive:disable-next-line:var-naming
package util

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Time-to-expiry bucket labels
const (
	BucketUnder3Months = "< 3 months"
	Bucket3To6Months   = "3-6 months"
	BucketOver6Months  = "> 6 months"
	BucketObsolete     = "Obsolete"
)

// Urgency colors for shared-dependency alerts
const (
	ColorRed    = "red"
	ColorOrange = "orange"
	ColorGreen  = "green"
	ColorGrey   = "grey"
)

// Buckets returns every bucket label in display order.
func Buckets() []string {
	return []string{BucketUnder3Months, Bucket3To6Months, BucketOver6Months, BucketObsolete}
}

// Bucket classifies an optional expiry date relative to today.
//
// The distance is counted in calendar months, (year*12 + month) of each date,
// ignoring the day of month. A missing date is not urgent.
func Bucket(expiry *civil.Date, today civil.Date) string {
	if expiry == nil {
		return BucketOver6Months
	}
	if !expiry.After(today) {
		return BucketObsolete
	}

	delta := MonthsBetween(today, *expiry)
	switch {
	case delta <= 3:
		return BucketUnder3Months
	case delta <= 6:
		return Bucket3To6Months
	default:
		return BucketOver6Months
	}
}

// MonthsBetween returns the calendar-month difference to-from, ignoring days.
func MonthsBetween(from, to civil.Date) int {
	return (to.Year*12 + int(to.Month)) - (from.Year*12 + int(from.Month))
}

// UrgencyColor maps a bucket label to the color shown on shared-dependency alerts.
func UrgencyColor(bucket string) string {
	switch bucket {
	case BucketUnder3Months, BucketObsolete:
		return ColorRed
	case Bucket3To6Months:
		return ColorOrange
	case BucketOver6Months:
		return ColorGreen
	default:
		return ColorGrey
	}
}

// QuarterLabel returns the "YYYY-Qn" period a date falls into.
func QuarterLabel(d civil.Date) string {
	return fmt.Sprintf("%d-Q%d", d.Year, (int(d.Month)-1)/3+1)
}

// IsPast reports whether d is strictly before today.
func IsPast(d *civil.Date, today civil.Date) bool {
	return d != nil && d.Before(today)
}

// Today returns the current calendar date in loc (UTC when loc is nil).
func Today(loc *time.Location) civil.Date {
	if loc == nil {
		loc = time.UTC
	}
	return civil.DateOf(time.Now().In(loc))
}

// FormatDate renders an optional date as ISO-8601, "" when absent.
func FormatDate(d *civil.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
