package challengegrp

import (
	"time"

	"github.com/speedrunethereum/speedrun/business/core/challenge"
	"github.com/speedrunethereum/speedrun/business/web/signed"
)

// AppSubmission represents a challenge submission in the API.
type AppSubmission struct {
	ID              uint64 `json:"id"`
	UserAddress     string `json:"userAddress"`
	ChallengeID     string `json:"challengeId"`
	ReviewAction    string `json:"reviewAction"`
	ReviewComment   string `json:"reviewComment,omitempty"`
	ReviewerAddress string `json:"reviewerAddress,omitempty"`
	ContractURL     string `json:"contractUrl"`
	FrontendURL     string `json:"frontendUrl,omitempty"`
	SubmittedAt     string `json:"submittedAt"`
	ReviewedAt      string `json:"reviewedAt,omitempty"`
}

func toAppSubmission(sub challenge.Submission) AppSubmission {
	app := AppSubmission{
		ID:              sub.ID,
		UserAddress:     sub.UserAddress,
		ChallengeID:     sub.ChallengeID,
		ReviewAction:    sub.ReviewAction.Name(),
		ReviewComment:   sub.ReviewComment,
		ReviewerAddress: sub.ReviewerAddr,
		ContractURL:     sub.ContractURL,
		FrontendURL:     sub.FrontendURL,
		SubmittedAt:     sub.SubmittedAt.Format(time.RFC3339),
	}

	if !sub.ReviewedAt.IsZero() {
		app.ReviewedAt = sub.ReviewedAt.Format(time.RFC3339)
	}

	return app
}

func toAppSubmissions(subs []challenge.Submission) []AppSubmission {
	items := make([]AppSubmission, len(subs))
	for i, sub := range subs {
		items[i] = toAppSubmission(sub)
	}
	return items
}

// AppNewSubmission contains information needed to submit a challenge.
type AppNewSubmission struct {
	signed.Signer
	ContractURL string `json:"contractUrl" validate:"required,url"`
	FrontendURL string `json:"frontendUrl" validate:"omitempty,url"`
}

// AppReview contains the moderation outcome an admin applies.
type AppReview struct {
	signed.Signer
	ReviewAction  string `json:"reviewAction" validate:"required,oneof=ACCEPTED REJECTED"`
	ReviewComment string `json:"reviewComment" validate:"max=2000"`
}
