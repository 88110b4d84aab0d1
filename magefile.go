// Copyright (C) 2025 The erc20kit Authors.
// See LICENSE for copying information.

//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/magefile/mage/sh"
)

// Test executes all unit and integration tests.
//nolint:deadcode
func Test() error {
	err := sh.RunV("go", "test", "./...")
	return err
}

// Coverage executes all unit test with coverage measurement.
//nolint:deadcode
func Coverage() error {
	fmt.Println("Executing tests and generate coverage information")
	err := sh.RunV("go", "test", "-coverprofile=./tmp/coverage.out", "./...")
	if err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-html=./tmp/coverage.out", "-o", "./tmp/coverage.html")
}

// Lint executes all the linters with golangci-lint.
//nolint:deadcode
func Lint() error {
	return sh.RunV("bash", "scripts/lint.sh")
}

// Format reformats code automatically.
//nolint:deadcode
func Format() error {
	err := sh.RunV("gofmt", "-w", ".")
	if err != nil {
		return err
	}
	return sh.RunV("goimports", "-w", "-local=github.com/erc20kit", ".")
}

// GenBuild re-generates `./build` helper binary.
//nolint:deadcode
func GenBuild() error {
	envs := map[string]string{
		"CGO_ENABLED": "0",
		"GOOS":        "linux",
		"GOARCH":      "amd64",
	}
	return sh.RunWithV(envs, "mage", "-compile", "build")
}

// DockerBuild builds erc20kit image.
//nolint:deadcode
func DockerBuild() error {
	tag, err := getNextDockerTag("erc20kit.last")
	if err != nil {
		return err
	}
	return sh.RunV("docker", "build", "-t", "erc20kit:"+tag, ".")
}

// Integration executes integration tests.
//nolint:deadcode
func Integration() error {
	return sh.RunV("bash", "test/test.sh")
}

// getNextDockerTag generates docker tag with the pattern yyyymmdd-n.
// last used tag is saved to the file and supposed to be committed.
func getNextDockerTag(tagFile string) (string, error) {
	datePattern := time.Now().Format("20060102")

	if _, err := os.Stat(tagFile); os.IsNotExist(err) {
		return datePattern + "-1", nil
	}

	content, err := os.ReadFile(tagFile)
	if err != nil {
		return "", err
	}
	parts := strings.Split(string(content), "-")
	if parts[0] == datePattern {
		i, err := strconv.Atoi(parts[1])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s-%d", datePattern, i+1), err
	}
	return datePattern + "-1", nil
}
