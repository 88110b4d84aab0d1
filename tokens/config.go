// Copyright (C) 2025 The erc20kit Authors.
// See LICENSE for copying information.

package tokens

// Config holds tokens client configuration.
type Config struct {
	Endpoint     string `help:"ethereum rpc endpoint url" devDefault:"http://127.0.0.1:8545" releaseDefault:""`
	Contract     string `help:"token contract address"`
	PrivateKey   string `help:"hex encoded private key used to sign token transactions"`
	Mnemonic     string `help:"bip39 mnemonic used to derive the signing key, ignored when private-key is set"`
	AccountIndex uint32 `help:"account index of the mnemonic derivation path" default:"0"`
}
