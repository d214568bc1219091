package domain

import "time"

// Segment classifies a customer by visit recency and volume
type Segment string

const (
	SegmentAtRisk   Segment = "at_risk"
	SegmentInactive Segment = "inactive"
	SegmentVIP      Segment = "vip"
	SegmentRegular  Segment = "regular"
	SegmentNew      Segment = "new"
)

// Segmentation policy constants. Recency thresholds take precedence over
// volume thresholds.
const (
	AtRiskDays    = 90
	InactiveDays  = 60
	VIPVisits     = 10
	RegularVisits = 3
)

// Defaults substituted when a business has no usable loyalty configuration
const (
	DefaultVisitsRequired    = 5
	DefaultRewardDescription = "Free service"
)

// LoyaltyConfig is a business's reward programme configuration
type LoyaltyConfig struct {
	VisitsRequired    int
	RewardDescription string
	SMSNotifications  bool
}

// LedgerState is the derived loyalty position of one customer at one
// business. Recomputed fresh from visit records on every query; never
// persisted.
type LedgerState struct {
	Phone            string    `json:"phone"`
	DisplayName      string    `json:"display_name,omitempty"`
	TotalVisits      int       `json:"total_visits"`
	TotalEarned      int       `json:"total_earned"`
	CurrentStamps    int       `json:"current_stamps"`
	AvailableRewards int       `json:"available_rewards"`
	ProgressStamps   int       `json:"progress_stamps"`
	LastVisitAt      time.Time `json:"last_visit_at"`

	// ConfigDefaulted is set when the business configuration could not be
	// resolved and the documented defaults were substituted.
	ConfigDefaulted bool `json:"config_defaulted,omitempty"`
}

// ClassifySegment applies the fixed segmentation policy to a customer's
// visit history as of now.
func ClassifySegment(totalVisits int, lastVisitAt, now time.Time) Segment {
	days := int(now.Sub(lastVisitAt).Hours() / 24)
	switch {
	case days >= AtRiskDays:
		return SegmentAtRisk
	case days >= InactiveDays:
		return SegmentInactive
	case totalVisits >= VIPVisits:
		return SegmentVIP
	case totalVisits >= RegularVisits:
		return SegmentRegular
	default:
		return SegmentNew
	}
}
