package builddb

import (
	"time"

	"github.com/speedrunethereum/speedrun/business/core/build"
	"gorm.io/datatypes"
)

// Build represent the structure we need for moving data
// between the app and the database.
type Build struct {
	ID           string `gorm:"primaryKey;size:36"`
	OwnerAddress string `gorm:"size:42;index;not null"`
	Name         string `gorm:"not null"`
	Description  string
	Type         string `gorm:"size:32;index"`
	Category     string `gorm:"size:32;index"`
	DemoURL      string
	VideoURL     string
	ImageURL     string
	GithubURL    string
	CoBuilders   datatypes.JSONSlice[string]
	BatchID      string `gorm:"size:36;index"`
	SubmittedAt  time.Time
	UpdatedAt    time.Time
}

// TableName overrides the table name used by gorm.
func (Build) TableName() string {
	return "builds"
}

// Like is a single builder liking a build. The composite key keeps a like
// unique per builder and build.
type Like struct {
	BuildID     string `gorm:"primaryKey;size:36"`
	UserAddress string `gorm:"primaryKey;size:42"`
	CreatedAt   time.Time
}

// TableName overrides the table name used by gorm.
func (Like) TableName() string {
	return "build_likes"
}

func toDBBuild(bld build.Build) Build {
	return Build{
		ID:           bld.ID,
		OwnerAddress: bld.OwnerAddress,
		Name:         bld.Name,
		Description:  bld.Description,
		Type:         bld.Type,
		Category:     bld.Category,
		DemoURL:      bld.DemoURL,
		VideoURL:     bld.VideoURL,
		ImageURL:     bld.ImageURL,
		GithubURL:    bld.GithubURL,
		CoBuilders:   datatypes.JSONSlice[string](bld.CoBuilders),
		BatchID:      bld.BatchID,
		SubmittedAt:  bld.SubmittedAt.UTC(),
		UpdatedAt:    bld.UpdatedAt.UTC(),
	}
}

func toCoreBuild(dbBld Build, likes []string) build.Build {
	if likes == nil {
		likes = []string{}
	}

	coBuilders := []string(dbBld.CoBuilders)
	if coBuilders == nil {
		coBuilders = []string{}
	}

	return build.Build{
		ID:           dbBld.ID,
		OwnerAddress: dbBld.OwnerAddress,
		Name:         dbBld.Name,
		Description:  dbBld.Description,
		Type:         dbBld.Type,
		Category:     dbBld.Category,
		DemoURL:      dbBld.DemoURL,
		VideoURL:     dbBld.VideoURL,
		ImageURL:     dbBld.ImageURL,
		GithubURL:    dbBld.GithubURL,
		CoBuilders:   coBuilders,
		BatchID:      dbBld.BatchID,
		Likes:        likes,
		SubmittedAt:  dbBld.SubmittedAt.In(time.Local),
		UpdatedAt:    dbBld.UpdatedAt.In(time.Local),
	}
}
