package usergrp

import (
	"encoding/json"
	"time"

	"github.com/speedrunethereum/speedrun/business/core/user"
	"github.com/speedrunethereum/speedrun/business/web/signed"
)

// AppUser represents a user in the API.
type AppUser struct {
	Address     string          `json:"address"`
	Role        string          `json:"role"`
	BatchID     string          `json:"batchId,omitempty"`
	BatchStatus string          `json:"batchStatus,omitempty"`
	EnsName     string          `json:"ensName,omitempty"`
	EnsAvatar   string          `json:"ensAvatar,omitempty"`
	Socials     AppSocials      `json:"socials"`
	Location    string          `json:"location,omitempty"`
	OnchainData json.RawMessage `json:"onchainData,omitempty"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

// AppSocials represents the social handles of a user in the API.
type AppSocials struct {
	Telegram  string `json:"telegram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Github    string `json:"github,omitempty"`
	Email     string `json:"email,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Discord   string `json:"discord,omitempty"`
	Website   string `json:"website,omitempty"`
}

func toAppUser(usr user.User) AppUser {
	return AppUser{
		Address:     usr.Address,
		Role:        usr.Role.Name(),
		BatchID:     usr.BatchID,
		BatchStatus: usr.BatchStatus.Name(),
		EnsName:     usr.EnsName,
		EnsAvatar:   usr.EnsAvatar,
		Socials: AppSocials{
			Telegram:  usr.Socials.Telegram,
			Twitter:   usr.Socials.Twitter,
			Github:    usr.Socials.Github,
			Email:     usr.Socials.Email,
			Instagram: usr.Socials.Instagram,
			Discord:   usr.Socials.Discord,
			Website:   usr.Socials.Website,
		},
		Location:    usr.Location,
		OnchainData: usr.OnchainData,
		CreatedAt:   usr.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   usr.UpdatedAt.Format(time.RFC3339),
	}
}

func toAppUsers(usrs []user.User) []AppUser {
	items := make([]AppUser, len(usrs))
	for i, usr := range usrs {
		items[i] = toAppUser(usr)
	}
	return items
}

// =============================================================================

// AppRegister is the signed request to register the signer.
type AppRegister struct {
	signed.Signer
}

// AppUpdateUser contains the admin controlled fields of a user.
type AppUpdateUser struct {
	signed.Signer
	Role        string `json:"role" validate:"required,oneof=anonymous user builder admin"`
	BatchID     string `json:"batchId"`
	BatchStatus string `json:"batchStatus" validate:"omitempty,oneof=candidate graduate"`
}

// AppUpdateOnchainData is the signed request to refresh the on-chain data.
type AppUpdateOnchainData struct {
	signed.Signer
}

// AppUpdateENS contains the resolved ENS identity of a user.
type AppUpdateENS struct {
	signed.Signer
	EnsName   string `json:"ensName" validate:"max=255"`
	EnsAvatar string `json:"ensAvatar" validate:"omitempty,url"`
}

// AppUpdateSocials contains the social handles and location of a user.
type AppUpdateSocials struct {
	signed.Signer
	AppSocials
	Location string `json:"location" validate:"max=255"`
}

func (app AppUpdateSocials) toUpdateProfile() user.UpdateProfile {
	socials := user.Socials{
		Telegram:  app.Telegram,
		Twitter:   app.Twitter,
		Github:    app.Github,
		Email:     app.Email,
		Instagram: app.Instagram,
		Discord:   app.Discord,
		Website:   app.Website,
	}

	location := app.Location

	return user.UpdateProfile{
		Socials:  &socials,
		Location: &location,
	}
}
