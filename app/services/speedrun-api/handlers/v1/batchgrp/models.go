package batchgrp

import (
	"time"

	"github.com/speedrunethereum/speedrun/business/core/batch"
	"github.com/speedrunethereum/speedrun/business/core/user"
	"github.com/speedrunethereum/speedrun/business/web/signed"
)

// dateLayout is the layout of a batch start date.
const dateLayout = "2006-01-02"

// AppBatch represents a batch in the API.
type AppBatch struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	StartDate       string `json:"startDate"`
	Status          string `json:"status"`
	TelegramLink    string `json:"telegramLink,omitempty"`
	ContractAddress string `json:"contractAddress,omitempty"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

func toAppBatch(bch batch.Batch) AppBatch {
	return AppBatch{
		ID:              bch.ID,
		Name:            bch.Name,
		StartDate:       bch.StartDate.Format(dateLayout),
		Status:          bch.Status.Name(),
		TelegramLink:    bch.TelegramLink,
		ContractAddress: bch.ContractAddress,
		CreatedAt:       bch.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       bch.UpdatedAt.Format(time.RFC3339),
	}
}

func toAppBatches(bchs []batch.Batch) []AppBatch {
	items := make([]AppBatch, len(bchs))
	for i, bch := range bchs {
		items[i] = toAppBatch(bch)
	}
	return items
}

// AppBuilder is a member of a batch in the API.
type AppBuilder struct {
	Address     string `json:"address"`
	BatchStatus string `json:"batchStatus,omitempty"`
	EnsName     string `json:"ensName,omitempty"`
}

func toAppBuilders(usrs []user.User) []AppBuilder {
	items := make([]AppBuilder, len(usrs))
	for i, usr := range usrs {
		items[i] = AppBuilder{
			Address:     usr.Address,
			BatchStatus: usr.BatchStatus.Name(),
			EnsName:     usr.EnsName,
		}
	}
	return items
}

// =============================================================================

// AppBatchFields contains the information an admin sets on a batch.
type AppBatchFields struct {
	Name            string `json:"name" validate:"required,max=255"`
	StartDate       string `json:"startDate" validate:"required,datetime=2006-01-02"`
	Status          string `json:"status" validate:"required,oneof=open closed"`
	TelegramLink    string `json:"telegramLink" validate:"omitempty,url"`
	ContractAddress string `json:"contractAddress" validate:"omitempty,eth_addr"`
}

func (app AppBatchFields) message() map[string]any {
	return map[string]any{
		"name":            app.Name,
		"startDate":       app.StartDate,
		"status":          app.Status,
		"telegramLink":    app.TelegramLink,
		"contractAddress": app.ContractAddress,
	}
}

// parse converts the validated strings into their core types.
func (app AppBatchFields) parse() (time.Time, batch.Status, error) {
	startDate, err := time.Parse(dateLayout, app.StartDate)
	if err != nil {
		return time.Time{}, batch.Status{}, err
	}

	status, err := batch.ParseStatus(app.Status)
	if err != nil {
		return time.Time{}, batch.Status{}, err
	}

	return startDate, status, nil
}

// AppNewBatch contains information needed to create a batch.
type AppNewBatch struct {
	signed.Signer
	AppBatchFields
}

// AppUpdateBatch contains the replacement information of a batch.
type AppUpdateBatch struct {
	signed.Signer
	AppBatchFields
}
