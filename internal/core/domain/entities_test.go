package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifySegment(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name        string
		totalVisits int
		daysAgo     int
		want        Segment
	}{
		{"first visit today", 1, 0, SegmentNew},
		{"two visits recent", 2, 5, SegmentNew},
		{"three visits is regular", 3, 5, SegmentRegular},
		{"nine visits still regular", 9, 5, SegmentRegular},
		{"ten visits is vip", 10, 5, SegmentVIP},
		{"sixty days silent is inactive", 2, 60, SegmentInactive},
		{"eighty nine days still inactive", 2, 89, SegmentInactive},
		{"ninety days is at risk", 2, 90, SegmentAtRisk},
		{"recency beats volume", 20, 95, SegmentAtRisk},
		{"vip goes inactive too", 15, 61, SegmentInactive},
		{"fifty nine days keeps volume tier", 10, 59, SegmentVIP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			last := now.AddDate(0, 0, -tt.daysAgo)
			assert.Equal(t, tt.want, ClassifySegment(tt.totalVisits, last, now))
		})
	}
}
