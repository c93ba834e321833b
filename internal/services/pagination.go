package services

import (
	"math"
	"time"
)

// normalizePage clamps page/limit to sane values, filling in the default
// limit when the client sent none.
func normalizePage(page, limit *int, defaultLimit int) {
	if *page < 1 {
		*page = 1
	}
	if *limit < 1 {
		*limit = defaultLimit
	}
	if *limit > 100 {
		*limit = 100
	}
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

func daysAgo(days int) time.Time {
	return time.Now().AddDate(0, 0, -days)
}
