// Package challenge provides a core business API for challenge submissions
// and their review.
package challenge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Set of error variables for CRUD operations.
var (
	ErrNotFound         = errors.New("submission not found")
	ErrUnknownChallenge = errors.New("challenge does not exist")
	ErrAlreadyReviewed  = errors.New("submission was already reviewed")
	ErrInvalidReview    = errors.New("review must accept or reject")
	ErrAlreadyAccepted  = errors.New("challenge was already accepted")
)

// Storer interface declares the behavior this package needs to persist and
// retrieve data.
type Storer interface {
	Create(ctx context.Context, sub Submission) (Submission, error)
	Update(ctx context.Context, sub Submission) error
	QueryByID(ctx context.Context, submissionID uint64) (Submission, error)
	QueryByUser(ctx context.Context, address string) ([]Submission, error)
	QueryByReviewAction(ctx context.Context, action ReviewAction, pageNumber int, rowsPerPage int) ([]Submission, error)
}

// Core manages the set of APIs for submission access.
type Core struct {
	storer Storer
}

// NewCore constructs a core for submission api access.
func NewCore(storer Storer) *Core {
	return &Core{
		storer: storer,
	}
}

// Submit records a new attempt at a challenge. A challenge that was already
// accepted for the builder cannot be submitted again.
func (c *Core) Submit(ctx context.Context, ns NewSubmission, now time.Time) (Submission, error) {
	if _, exists := Lookup(ns.ChallengeID); !exists {
		return Submission{}, fmt.Errorf("%w: %q", ErrUnknownChallenge, ns.ChallengeID)
	}

	address := strings.ToLower(ns.UserAddress)

	latest, err := c.QueryLatestByUser(ctx, address)
	if err != nil {
		return Submission{}, err
	}

	for _, sub := range latest {
		if sub.ChallengeID == ns.ChallengeID && sub.ReviewAction == ReviewAccepted {
			return Submission{}, fmt.Errorf("%w: %q", ErrAlreadyAccepted, ns.ChallengeID)
		}
	}

	sub := Submission{
		UserAddress:  address,
		ChallengeID:  ns.ChallengeID,
		ReviewAction: ReviewSubmitted,
		ContractURL:  ns.ContractURL,
		FrontendURL:  ns.FrontendURL,
		SubmittedAt:  now,
	}

	sub, err = c.storer.Create(ctx, sub)
	if err != nil {
		return Submission{}, fmt.Errorf("create: %w", err)
	}

	return sub, nil
}

// Review applies the moderation outcome to a pending submission.
func (c *Core) Review(ctx context.Context, sub Submission, rv Review, now time.Time) (Submission, error) {
	if sub.ReviewAction != ReviewSubmitted {
		return Submission{}, fmt.Errorf("%w: submissionID[%d]", ErrAlreadyReviewed, sub.ID)
	}

	if rv.Action != ReviewAccepted && rv.Action != ReviewRejected {
		return Submission{}, ErrInvalidReview
	}

	sub.ReviewAction = rv.Action
	sub.ReviewComment = rv.Comment
	sub.ReviewerAddr = strings.ToLower(rv.ReviewerAddress)
	sub.ReviewedAt = now

	if err := c.storer.Update(ctx, sub); err != nil {
		return Submission{}, fmt.Errorf("update: %w", err)
	}

	return sub, nil
}

// QueryByID gets the specified submission from the database.
func (c *Core) QueryByID(ctx context.Context, submissionID uint64) (Submission, error) {
	sub, err := c.storer.QueryByID(ctx, submissionID)
	if err != nil {
		return Submission{}, fmt.Errorf("query: submissionID[%d]: %w", submissionID, err)
	}

	return sub, nil
}

// QueryLatestByUser returns the builder's latest submission per challenge.
func (c *Core) QueryLatestByUser(ctx context.Context, address string) ([]Submission, error) {
	subs, err := c.storer.QueryByUser(ctx, strings.ToLower(address))
	if err != nil {
		return nil, fmt.Errorf("query: address[%s]: %w", address, err)
	}

	return LatestPerChallenge(subs), nil
}

// QueryByReviewAction returns submissions in the review state, oldest first,
// which is the order they are reviewed in.
func (c *Core) QueryByReviewAction(ctx context.Context, action ReviewAction, pageNumber int, rowsPerPage int) ([]Submission, error) {
	subs, err := c.storer.QueryByReviewAction(ctx, action, pageNumber, rowsPerPage)
	if err != nil {
		return nil, fmt.Errorf("query: action[%s]: %w", action.Name(), err)
	}

	return subs, nil
}
