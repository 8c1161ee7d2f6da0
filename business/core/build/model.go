package build

import "time"

// Build is a project a builder publishes to the community showcase.
type Build struct {
	ID           string
	OwnerAddress string
	Name         string
	Description  string
	Type         string
	Category     string
	DemoURL      string
	VideoURL     string
	ImageURL     string
	GithubURL    string
	CoBuilders   []string
	BatchID      string
	Likes        []string
	SubmittedAt  time.Time
	UpdatedAt    time.Time
}

// LikeCount returns the number of builders that like the build.
func (b Build) LikeCount() int {
	return len(b.Likes)
}

// NewBuild contains information needed to submit a build.
type NewBuild struct {
	OwnerAddress string
	Name         string
	Description  string
	Type         string
	Category     string
	DemoURL      string
	VideoURL     string
	ImageURL     string
	GithubURL    string
	CoBuilders   []string
	BatchID      string
}

// UpdateBuild contains information needed to update a build. Nil fields are
// left untouched.
type UpdateBuild struct {
	Name        *string
	Description *string
	Type        *string
	Category    *string
	DemoURL     *string
	VideoURL    *string
	ImageURL    *string
	GithubURL   *string
	CoBuilders  []string
}

// Like is the presence of a builder's like on a build.
type Like struct {
	BuildID     string
	UserAddress string
	CreatedAt   time.Time
}

// Set of build types a build can be published as.
var Types = []string{"dapp", "infrastructure", "challenge", "content", "design", "other"}

// Set of categories a build can be filed under.
var Categories = []string{"DeFi", "Gaming", "NFTs", "Social", "DAOs", "Dev Tooling", "Identity", "Payments", "AI", "Other"}
