// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// TimelineYear groups entries created in one calendar year.
type TimelineYear struct {
	Year   int
	Months []TimelineMonth
}

// TimelineMonth groups entries created in one month.
type TimelineMonth struct {
	Month time.Month
	Days  []TimelineDay
}

// TimelineDay groups entries created on one day, newest first.
type TimelineDay struct {
	Day     int
	Entries []DecryptedEntry
}
