package challenge

// LatestBy keeps the first item seen for every key. Items are expected most
// recent first, so the result holds the latest item per key in the order the
// keys were first seen.
func LatestBy[T any, K comparable](items []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(items))
	out := make([]T, 0, len(items))

	for _, item := range items {
		k := key(item)
		if _, exists := seen[k]; exists {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}

	return out
}

// LatestPerChallenge reduces submissions, most recent first, to the latest
// submission for each challenge.
func LatestPerChallenge(subs []Submission) []Submission {
	return LatestBy(subs, func(s Submission) string {
		return s.ChallengeID
	})
}
