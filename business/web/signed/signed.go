// Package signed provides the request handling shared by every handler that
// changes state on behalf of a wallet.
package signed

import (
	"context"
	"net/http"

	"github.com/speedrunethereum/speedrun/business/sys/auth"
	"github.com/speedrunethereum/speedrun/business/sys/validate"
	"github.com/speedrunethereum/speedrun/business/web/errs"
	"github.com/speedrunethereum/speedrun/foundation/eip712"
	"github.com/speedrunethereum/speedrun/foundation/web"
)

// Signer is the part of every mutation body that identifies the caller and
// carries their signature over the operation's message.
type Signer struct {
	Address   string `json:"address" validate:"required,eth_addr"`
	Signature string `json:"signature" validate:"required,hexadecimal"`
}

// Signed provides access to the signer of a decoded body.
type Signed interface {
	signer() Signer
}

func (s Signer) signer() Signer {
	return s
}

// Decode reads a signed body and checks it against its declared tags. A body
// that cannot be decoded or fails validation stops the request with a 400.
func Decode(r *http.Request, val Signed) error {
	if err := web.Decode(r, val); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(val); err != nil {
		return err
	}

	return nil
}

// Authorize checks the signature of the body over the message and then the
// rule for the operation.
func Authorize(ctx context.Context, a *auth.Auth, val Signed, td eip712.TypedData, rule auth.Rule) error {
	s := val.signer()

	req := auth.Request{
		Address:   s.Address,
		Signature: s.Signature,
		Message:   td,
		Rule:      rule,
	}

	return a.Authorize(ctx, req)
}
