package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/speedrunethereum/speedrun/business/data/schema"
	"github.com/speedrunethereum/speedrun/business/sys/database"
	"go.uber.org/zap"
)

// Promote gives the user at the address the admin role, registering them
// first when needed.
func Promote(log *zap.SugaredLogger, cfg database.Config, address string) error {
	if address == "" {
		fmt.Println("help: promote <address>")
		return ErrHelp
	}

	db, closeFn, err := open(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	usr, err := schema.Promote(ctx, log, db, address)
	if err != nil {
		return err
	}

	fmt.Printf("user %s is now %s\n", usr.Address, usr.Role.Name())
	return nil
}
