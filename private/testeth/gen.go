// Copyright (C) 2025 The erc20kit Authors.
// See LICENSE for copying information.

package testeth

//go:generate mkdir -p "testtoken"
//go:generate abigen --bin=../../contracts/build/TestToken.bin --abi=../../contracts/build/TestToken.abi --type=TestToken --pkg=testtoken --out=testtoken/testtoken.go
