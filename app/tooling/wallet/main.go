// This program manages keys and signs the messages the speedrun API accepts.
package main

import "github.com/speedrunethereum/speedrun/app/tooling/wallet/cmd"

func main() {
	cmd.Execute()
}
