package userdb

import (
	"encoding/json"
	"time"

	"github.com/speedrunethereum/speedrun/business/core/user"
	"gorm.io/datatypes"
)

// User represent the structure we need for moving data
// between the app and the database.
type User struct {
	Address     string `gorm:"primaryKey;size:42"`
	Role        string `gorm:"size:16;index;not null"`
	BatchID     string `gorm:"size:36;index"`
	BatchStatus string `gorm:"size:16"`
	EnsName     string
	EnsAvatar   string
	Telegram    string
	Twitter     string
	Github      string
	Email       string
	Instagram   string
	Discord     string
	Website     string
	Location    string
	OnchainData datatypes.JSON
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the table name used by gorm.
func (User) TableName() string {
	return "users"
}

func toDBUser(usr user.User) User {
	return User{
		Address:     usr.Address,
		Role:        usr.Role.Name(),
		BatchID:     usr.BatchID,
		BatchStatus: usr.BatchStatus.Name(),
		EnsName:     usr.EnsName,
		EnsAvatar:   usr.EnsAvatar,
		Telegram:    usr.Socials.Telegram,
		Twitter:     usr.Socials.Twitter,
		Github:      usr.Socials.Github,
		Email:       usr.Socials.Email,
		Instagram:   usr.Socials.Instagram,
		Discord:     usr.Socials.Discord,
		Website:     usr.Socials.Website,
		Location:    usr.Location,
		OnchainData: datatypes.JSON(usr.OnchainData),
		CreatedAt:   usr.CreatedAt.UTC(),
		UpdatedAt:   usr.UpdatedAt.UTC(),
	}
}

func toCoreUser(dbUsr User) user.User {

	// An unknown role in storage is treated as no role at all so it can
	// never satisfy an authorization check.
	role, err := user.ParseRole(dbUsr.Role)
	if err != nil {
		role = user.RoleAnonymous
	}

	// The zero value is kept when no batch status was stored.
	status, _ := user.ParseBatchStatus(dbUsr.BatchStatus)

	usr := user.User{
		Address:     dbUsr.Address,
		Role:        role,
		BatchID:     dbUsr.BatchID,
		BatchStatus: status,
		EnsName:     dbUsr.EnsName,
		EnsAvatar:   dbUsr.EnsAvatar,
		Socials: user.Socials{
			Telegram:  dbUsr.Telegram,
			Twitter:   dbUsr.Twitter,
			Github:    dbUsr.Github,
			Email:     dbUsr.Email,
			Instagram: dbUsr.Instagram,
			Discord:   dbUsr.Discord,
			Website:   dbUsr.Website,
		},
		Location:  dbUsr.Location,
		CreatedAt: dbUsr.CreatedAt.In(time.Local),
		UpdatedAt: dbUsr.UpdatedAt.In(time.Local),
	}

	if len(dbUsr.OnchainData) > 0 {
		usr.OnchainData = json.RawMessage(dbUsr.OnchainData)
	}

	return usr
}

func toCoreUserSlice(dbUsers []User) []user.User {
	usrs := make([]user.User, len(dbUsers))
	for i, dbUsr := range dbUsers {
		usrs[i] = toCoreUser(dbUsr)
	}
	return usrs
}
