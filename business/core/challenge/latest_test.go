package challenge_test

import (
	"reflect"
	"testing"

	"github.com/speedrunethereum/speedrun/business/core/challenge"
)

func Test_LatestPerChallenge(t *testing.T) {
	type table struct {
		name string
		subs []challenge.Submission
		exp  []uint64
	}

	tt := []table{
		{
			name: "dedup",
			subs: []challenge.Submission{
				{ID: 3, ChallengeID: "b"},
				{ID: 2, ChallengeID: "a"},
				{ID: 1, ChallengeID: "a"},
			},
			exp: []uint64{3, 2},
		},
		{
			name: "order",
			subs: []challenge.Submission{
				{ID: 9, ChallengeID: "a"},
				{ID: 8, ChallengeID: "c"},
				{ID: 7, ChallengeID: "a"},
				{ID: 6, ChallengeID: "b"},
				{ID: 5, ChallengeID: "c"},
			},
			exp: []uint64{9, 8, 6},
		},
		{
			name: "empty",
			subs: nil,
			exp:  []uint64{},
		},
	}

	t.Log("Given the need to reduce submissions to the latest per challenge.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				got := challenge.LatestPerChallenge(tst.subs)

				ids := make([]uint64, len(got))
				for i, sub := range got {
					ids[i] = sub.ID
				}

				if !reflect.DeepEqual(ids, tst.exp) {
					t.Logf("\t\tgot: %v", ids)
					t.Logf("\t\texp: %v", tst.exp)
					t.Fatalf("\t✗\tTest %d:\tShould get back the latest submission per challenge.", testID)
				}
				t.Logf("\t✓\tTest %d:\tShould get back the latest submission per challenge.", testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_LatestBy(t *testing.T) {
	got := challenge.LatestBy([]string{"x1", "y1", "x2"}, func(s string) byte { return s[0] })
	if !reflect.DeepEqual(got, []string{"x1", "y1"}) {
		t.Fatalf("Should keep the first item per key, got %v", got)
	}
}
