package challenge

import (
	"fmt"
	"time"
)

// Submission is a builder's attempt at a challenge and its review outcome.
type Submission struct {
	ID            uint64
	UserAddress   string
	ChallengeID   string
	ReviewAction  ReviewAction
	ReviewComment string
	ReviewerAddr  string
	ContractURL   string
	FrontendURL   string
	SubmittedAt   time.Time
	ReviewedAt    time.Time
}

// NewSubmission contains information needed to submit a challenge.
type NewSubmission struct {
	UserAddress string
	ChallengeID string
	ContractURL string
	FrontendURL string
}

// Review contains the moderation outcome for a submission.
type Review struct {
	ReviewerAddress string
	Action          ReviewAction
	Comment         string
}

// =============================================================================

// Set of review actions a submission can be in.
var (
	ReviewSubmitted = ReviewAction{"SUBMITTED"}
	ReviewAccepted  = ReviewAction{"ACCEPTED"}
	ReviewRejected  = ReviewAction{"REJECTED"}
)

var reviewActions = map[string]ReviewAction{
	ReviewSubmitted.name: ReviewSubmitted,
	ReviewAccepted.name:  ReviewAccepted,
	ReviewRejected.name:  ReviewRejected,
}

// ReviewAction is the moderation outcome of a submission.
type ReviewAction struct {
	name string
}

// ParseReviewAction parses the string value and returns a review action if
// one exists.
func ParseReviewAction(value string) (ReviewAction, error) {
	action, exists := reviewActions[value]
	if !exists {
		return ReviewAction{}, fmt.Errorf("invalid review action %q", value)
	}

	return action, nil
}

// Name returns the name of the review action.
func (a ReviewAction) Name() string {
	return a.name
}

// MarshalText implement the marshal interface for JSON conversions.
func (a ReviewAction) MarshalText() ([]byte, error) {
	return []byte(a.name), nil
}
