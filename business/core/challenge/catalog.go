package challenge

// Challenge is one step of the Speedrun curriculum.
type Challenge struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Sort     int    `json:"sort"`
	Disabled bool   `json:"disabled"`
}

// catalog is the fixed list of challenges a builder can submit.
var catalog = []Challenge{
	{ID: "simple-nft-example", Name: "Simple NFT Example", Sort: 1},
	{ID: "decentralized-staking", Name: "Decentralized Staking App", Sort: 2},
	{ID: "token-vendor", Name: "Token Vendor", Sort: 3},
	{ID: "dice-game", Name: "Dice Game", Sort: 4},
	{ID: "minimum-viable-exchange", Name: "Build a DEX", Sort: 5},
	{ID: "state-channels", Name: "A State Channel Application", Sort: 6},
	{ID: "multisig", Name: "Multisig Wallet", Sort: 7},
	{ID: "svg-nft", Name: "SVG NFT", Sort: 8},
	{ID: "over-collateralized-lending", Name: "Over-Collateralized Lending", Sort: 9},
	{ID: "stablecoins", Name: "Stablecoins", Sort: 10},
	{ID: "prediction-markets", Name: "Prediction Markets", Sort: 11},
	{ID: "deploy-to-l2", Name: "Deploy to L2", Sort: 12},
}

// Catalog returns a copy of the challenges in curriculum order.
func Catalog() []Challenge {
	out := make([]Challenge, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the challenge with the id if it exists and accepts
// submissions.
func Lookup(id string) (Challenge, bool) {
	for _, c := range catalog {
		if c.ID == id && !c.Disabled {
			return c, true
		}
	}
	return Challenge{}, false
}
