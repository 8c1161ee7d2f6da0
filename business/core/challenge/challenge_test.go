package challenge_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/speedrunethereum/speedrun/business/core/challenge"
	"github.com/speedrunethereum/speedrun/business/core/challenge/stores/challengedb"
	"github.com/speedrunethereum/speedrun/business/sys/database/dbtest"
)

const (
	builder = "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32"
	admin   = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"
)

func Test_Submission(t *testing.T) {
	log, db, teardown := dbtest.NewUnit(t, &challengedb.Submission{})
	t.Cleanup(teardown)

	core := challenge.NewCore(challengedb.NewStore(log, db))
	ctx := context.Background()
	now := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)

	t.Log("Given the need to submit and review challenges.")
	{
		submit := func(id string) challenge.Submission {
			sub, err := core.Submit(ctx, challenge.NewSubmission{UserAddress: builder, ChallengeID: id, ContractURL: "https://sepolia.etherscan.io/address/0x1"}, now)
			if err != nil {
				t.Fatalf("\t%s\tShould be able to submit %q : %s.", dbtest.Failed, id, err)
			}
			return sub
		}

		first := submit("token-vendor")
		second := submit("token-vendor")
		third := submit("dice-game")
		t.Logf("\t%s\tShould be able to submit challenges.", dbtest.Success)

		if !(first.ID < second.ID && second.ID < third.ID) {
			t.Fatalf("\t%s\tShould get increasing ids : %d %d %d.", dbtest.Failed, first.ID, second.ID, third.ID)
		}

		latest, err := core.QueryLatestByUser(ctx, builder)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to query the latest submissions : %s.", dbtest.Failed, err)
		}
		if len(latest) != 2 || latest[0].ID != third.ID || latest[1].ID != second.ID {
			t.Fatalf("\t%s\tShould get back the latest submission per challenge : %+v.", dbtest.Failed, latest)
		}
		t.Logf("\t%s\tShould get back the latest submission per challenge.", dbtest.Success)

		if _, err := core.Submit(ctx, challenge.NewSubmission{UserAddress: builder, ChallengeID: "not-a-challenge"}, now); !errors.Is(err, challenge.ErrUnknownChallenge) {
			t.Fatalf("\t%s\tShould reject an unknown challenge : %v.", dbtest.Failed, err)
		}

		pending, err := core.QueryByReviewAction(ctx, challenge.ReviewSubmitted, 1, 10)
		if err != nil || len(pending) != 3 {
			t.Fatalf("\t%s\tShould get back three pending submissions : %d %v.", dbtest.Failed, len(pending), err)
		}

		reviewed, err := core.Review(ctx, second, challenge.Review{ReviewerAddress: admin, Action: challenge.ReviewAccepted, Comment: "nice"}, now)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to review a submission : %s.", dbtest.Failed, err)
		}

		saved, err := core.QueryByID(ctx, reviewed.ID)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to retrieve the submission : %s.", dbtest.Failed, err)
		}
		if saved.ReviewAction != challenge.ReviewAccepted || saved.ReviewedAt.IsZero() {
			t.Fatalf("\t%s\tShould see the review on the submission : %+v.", dbtest.Failed, saved)
		}
		t.Logf("\t%s\tShould be able to review a submission.", dbtest.Success)

		if _, err := core.Review(ctx, saved, challenge.Review{ReviewerAddress: admin, Action: challenge.ReviewRejected}, now); !errors.Is(err, challenge.ErrAlreadyReviewed) {
			t.Fatalf("\t%s\tShould not review a submission twice : %v.", dbtest.Failed, err)
		}

		if _, err := core.Review(ctx, third, challenge.Review{ReviewerAddress: admin, Action: challenge.ReviewSubmitted}, now); !errors.Is(err, challenge.ErrInvalidReview) {
			t.Fatalf("\t%s\tShould not review back to submitted : %v.", dbtest.Failed, err)
		}

		if _, err := core.Submit(ctx, challenge.NewSubmission{UserAddress: builder, ChallengeID: "token-vendor"}, now); !errors.Is(err, challenge.ErrAlreadyAccepted) {
			t.Fatalf("\t%s\tShould not resubmit an accepted challenge : %v.", dbtest.Failed, err)
		}
		t.Logf("\t%s\tShould guard the review lifecycle.", dbtest.Success)
	}
}
