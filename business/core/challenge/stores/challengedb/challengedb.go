// Package challengedb contains challenge submission related CRUD
// functionality.
package challengedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/speedrunethereum/speedrun/business/core/challenge"
	"github.com/speedrunethereum/speedrun/business/sys/database"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Submission represent the structure we need for moving data
// between the app and the database.
type Submission struct {
	ID              uint64 `gorm:"primaryKey;autoIncrement"`
	UserAddress     string `gorm:"size:42;index;not null"`
	ChallengeID     string `gorm:"size:64;index;not null"`
	ReviewAction    string `gorm:"size:16;index;not null"`
	ReviewComment   string
	ReviewerAddress string `gorm:"size:42"`
	ContractURL     string
	FrontendURL     string
	SubmittedAt     time.Time
	ReviewedAt      sql.NullTime
}

// TableName overrides the table name used by gorm.
func (Submission) TableName() string {
	return "user_challenges"
}

// Store manages the set of APIs for submission database access.
type Store struct {
	log *zap.SugaredLogger
	db  *gorm.DB
}

// NewStore constructs the api for data access.
func NewStore(log *zap.SugaredLogger, db *gorm.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

// Create inserts a new submission into the database and returns it with the
// id the database assigned.
func (s *Store) Create(ctx context.Context, sub challenge.Submission) (challenge.Submission, error) {
	dbSub := toDBSubmission(sub)
	dbSub.ID = 0

	if err := s.db.WithContext(ctx).Create(&dbSub).Error; err != nil {
		return challenge.Submission{}, fmt.Errorf("inserting submission: %w", database.Error(err))
	}

	sub.ID = dbSub.ID
	return sub, nil
}

// Update replaces a submission document in the database.
func (s *Store) Update(ctx context.Context, sub challenge.Submission) error {
	dbSub := toDBSubmission(sub)

	res := s.db.WithContext(ctx).Model(&Submission{}).Where("id = ?", dbSub.ID).Select("*").Omit("id", "submitted_at").Updates(&dbSub)
	if res.Error != nil {
		return fmt.Errorf("updating submissionID[%d]: %w", sub.ID, database.Error(res.Error))
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("updating submissionID[%d]: %w", sub.ID, challenge.ErrNotFound)
	}

	return nil
}

// QueryByID gets the specified submission from the database.
func (s *Store) QueryByID(ctx context.Context, submissionID uint64) (challenge.Submission, error) {
	var dbSub Submission
	if err := s.db.WithContext(ctx).Where("id = ?", submissionID).First(&dbSub).Error; err != nil {
		if errors.Is(database.Error(err), database.ErrDBNotFound) {
			return challenge.Submission{}, challenge.ErrNotFound
		}
		return challenge.Submission{}, fmt.Errorf("selecting submissionID[%d]: %w", submissionID, err)
	}

	return toCoreSubmission(dbSub), nil
}

// QueryByUser retrieves every submission of a user, most recent first.
func (s *Store) QueryByUser(ctx context.Context, address string) ([]challenge.Submission, error) {
	var dbSubs []Submission
	if err := s.db.WithContext(ctx).Where("user_address = ?", address).Order("id DESC").Find(&dbSubs).Error; err != nil {
		return nil, fmt.Errorf("selecting submissions: %w", database.Error(err))
	}

	return toCoreSubmissionSlice(dbSubs), nil
}

// QueryByReviewAction retrieves submissions in the review state, oldest first.
func (s *Store) QueryByReviewAction(ctx context.Context, action challenge.ReviewAction, pageNumber int, rowsPerPage int) ([]challenge.Submission, error) {
	var dbSubs []Submission
	err := s.db.WithContext(ctx).
		Where("review_action = ?", action.Name()).
		Order("id ASC").
		Offset((pageNumber - 1) * rowsPerPage).
		Limit(rowsPerPage).
		Find(&dbSubs).Error
	if err != nil {
		return nil, fmt.Errorf("selecting submissions: %w", database.Error(err))
	}

	return toCoreSubmissionSlice(dbSubs), nil
}

// =============================================================================

func toDBSubmission(sub challenge.Submission) Submission {
	dbSub := Submission{
		ID:              sub.ID,
		UserAddress:     sub.UserAddress,
		ChallengeID:     sub.ChallengeID,
		ReviewAction:    sub.ReviewAction.Name(),
		ReviewComment:   sub.ReviewComment,
		ReviewerAddress: sub.ReviewerAddr,
		ContractURL:     sub.ContractURL,
		FrontendURL:     sub.FrontendURL,
		SubmittedAt:     sub.SubmittedAt.UTC(),
	}

	if !sub.ReviewedAt.IsZero() {
		dbSub.ReviewedAt = sql.NullTime{Time: sub.ReviewedAt.UTC(), Valid: true}
	}

	return dbSub
}

func toCoreSubmission(dbSub Submission) challenge.Submission {
	action, err := challenge.ParseReviewAction(dbSub.ReviewAction)
	if err != nil {
		action = challenge.ReviewSubmitted
	}

	sub := challenge.Submission{
		ID:            dbSub.ID,
		UserAddress:   dbSub.UserAddress,
		ChallengeID:   dbSub.ChallengeID,
		ReviewAction:  action,
		ReviewComment: dbSub.ReviewComment,
		ReviewerAddr:  dbSub.ReviewerAddress,
		ContractURL:   dbSub.ContractURL,
		FrontendURL:   dbSub.FrontendURL,
		SubmittedAt:   dbSub.SubmittedAt.In(time.Local),
	}

	if dbSub.ReviewedAt.Valid {
		sub.ReviewedAt = dbSub.ReviewedAt.Time.In(time.Local)
	}

	return sub
}

func toCoreSubmissionSlice(dbSubs []Submission) []challenge.Submission {
	subs := make([]challenge.Submission, len(dbSubs))
	for i, dbSub := range dbSubs {
		subs[i] = toCoreSubmission(dbSub)
	}
	return subs
}
