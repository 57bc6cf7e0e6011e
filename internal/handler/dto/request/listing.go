package request

import "time"

// ListingQuery carries the shared pagination params of the catalog listings.
type ListingQuery struct {
	Page int `form:"page,default=1" binding:"min=1"`
	Size int `form:"size,default=20" binding:"min=1,max=100"`
}

// WindowQuery is the requested stay window for hotel and room availability.
type WindowQuery struct {
	StartTime time.Time `form:"start_time" time_format:"2006-01-02T15:04:05Z07:00" binding:"required"`
	EndTime   time.Time `form:"end_time" time_format:"2006-01-02T15:04:05Z07:00" binding:"required"`
}
