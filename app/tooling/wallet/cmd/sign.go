package cmd

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/speedrunethereum/speedrun/business/sys/messages"
	"github.com/speedrunethereum/speedrun/foundation/eip712"
	"github.com/spf13/cobra"
)

var signCmd = &cobra.Command{
	Use:   "sign <operation> [field=value ...]",
	Short: "Sign the message for an API operation",
	Long: "Sign the message for an API operation. The signer address is filled in\n" +
		"from the wallet. Operations: " + strings.Join(messages.Names(), ", "),
	Args: cobra.MinimumNArgs(1),
	RunE: signRun,
}

func init() {
	rootCmd.AddCommand(signCmd)
}

// signed is what the sign command prints.
type signed struct {
	Address   string         `json:"address"`
	Signature string         `json:"signature"`
	Message   map[string]any `json:"message"`
}

func signRun(cmd *cobra.Command, args []string) error {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		return err
	}

	out, err := sign(privateKey, args[0], args[1:])
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func sign(privateKey *ecdsa.PrivateKey, operation string, pairs []string) (signed, error) {
	schema, err := messages.Lookup(operation)
	if err != nil {
		return signed{}, err
	}

	address := crypto.PubkeyToAddress(privateKey.PublicKey).Hex()

	values := map[string]any{
		"address": address,
	}
	if schema.Name == messages.Register.Name {
		values["description"] = messages.RegisterDescription
	}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return signed{}, fmt.Errorf("field %q is not in key=value form", pair)
		}
		values[key] = value
	}

	td := schema.TypedData(values)

	sig, err := eip712.Sign(td, privateKey)
	if err != nil {
		return signed{}, fmt.Errorf("sign %s: %w", operation, err)
	}

	return signed{
		Address:   address,
		Signature: sig,
		Message:   td.Message,
	}, nil
}
