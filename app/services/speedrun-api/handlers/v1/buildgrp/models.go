package buildgrp

import (
	"strings"
	"time"

	"github.com/speedrunethereum/speedrun/business/core/build"
	"github.com/speedrunethereum/speedrun/business/web/signed"
)

// AppBuild represents a build in the API.
type AppBuild struct {
	ID           string   `json:"id"`
	OwnerAddress string   `json:"ownerAddress"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Type         string   `json:"buildType"`
	Category     string   `json:"buildCategory,omitempty"`
	DemoURL      string   `json:"demoUrl,omitempty"`
	VideoURL     string   `json:"videoUrl,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	GithubURL    string   `json:"githubUrl,omitempty"`
	CoBuilders   []string `json:"coBuilders"`
	BatchID      string   `json:"batchId,omitempty"`
	Likes        []string `json:"likes"`
	LikeCount    int      `json:"likeCount"`
	SubmittedAt  string   `json:"submittedAt"`
	UpdatedAt    string   `json:"updatedAt"`
}

func toAppBuild(bld build.Build) AppBuild {
	coBuilders := bld.CoBuilders
	if coBuilders == nil {
		coBuilders = []string{}
	}

	likes := bld.Likes
	if likes == nil {
		likes = []string{}
	}

	return AppBuild{
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
		CoBuilders:   coBuilders,
		BatchID:      bld.BatchID,
		Likes:        likes,
		LikeCount:    bld.LikeCount(),
		SubmittedAt:  bld.SubmittedAt.Format(time.RFC3339),
		UpdatedAt:    bld.UpdatedAt.Format(time.RFC3339),
	}
}

func toAppBuilds(blds []build.Build) []AppBuild {
	items := make([]AppBuild, len(blds))
	for i, bld := range blds {
		items[i] = toAppBuild(bld)
	}
	return items
}

// =============================================================================

// AppBuildFields contains the editable information of a build.
type AppBuildFields struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Description string   `json:"description" validate:"max=2000"`
	Type        string   `json:"buildType" validate:"required"`
	Category    string   `json:"buildCategory"`
	DemoURL     string   `json:"demoUrl" validate:"omitempty,url"`
	VideoURL    string   `json:"videoUrl" validate:"omitempty,url"`
	ImageURL    string   `json:"imageUrl" validate:"omitempty,url"`
	GithubURL   string   `json:"githubUrl" validate:"omitempty,url"`
	CoBuilders  []string `json:"coBuilders" validate:"dive,eth_addr"`
}

// message returns the signed values shared by submit and update. Co-builders
// are signed as a comma separated list.
func (app AppBuildFields) message() map[string]any {
	return map[string]any{
		"name":          app.Name,
		"description":   app.Description,
		"buildType":     app.Type,
		"buildCategory": app.Category,
		"demoUrl":       app.DemoURL,
		"videoUrl":      app.VideoURL,
		"imageUrl":      app.ImageURL,
		"githubUrl":     app.GithubURL,
		"coBuilders":    strings.Join(app.CoBuilders, ","),
	}
}

// AppNewBuild contains information needed to submit a build.
type AppNewBuild struct {
	signed.Signer
	AppBuildFields
	BatchID string `json:"batchId"`
}

func toCoreNewBuild(app AppNewBuild) build.NewBuild {
	return build.NewBuild{
		OwnerAddress: app.Address,
		Name:         app.Name,
		Description:  app.Description,
		Type:         app.Type,
		Category:     app.Category,
		DemoURL:      app.DemoURL,
		VideoURL:     app.VideoURL,
		ImageURL:     app.ImageURL,
		GithubURL:    app.GithubURL,
		CoBuilders:   app.CoBuilders,
		BatchID:      app.BatchID,
	}
}

// AppUpdateBuild contains the replacement information of a build.
type AppUpdateBuild struct {
	signed.Signer
	AppBuildFields
}

func toCoreUpdateBuild(app AppUpdateBuild) build.UpdateBuild {
	coBuilders := app.CoBuilders
	if coBuilders == nil {
		coBuilders = []string{}
	}

	return build.UpdateBuild{
		Name:        &app.Name,
		Description: &app.Description,
		Type:        &app.Type,
		Category:    &app.Category,
		DemoURL:     &app.DemoURL,
		VideoURL:    &app.VideoURL,
		ImageURL:    &app.ImageURL,
		GithubURL:   &app.GithubURL,
		CoBuilders:  coBuilders,
	}
}

// AppDeleteBuild is the signed request to delete a build.
type AppDeleteBuild struct {
	signed.Signer
}

// AppLikeBuild is the signed request to toggle the signer's like.
type AppLikeBuild struct {
	signed.Signer
}

// AppLike represents the outcome of a like toggle in the API.
type AppLike struct {
	BuildID   string `json:"buildId"`
	Action    string `json:"action"`
	Liked     bool   `json:"liked"`
	LikeCount int    `json:"likeCount"`
}
