// Package tools for go mod

// +build tools

package tools

import (
	_ "github.com/mattn/goveralls"
	_ "github.com/stretchr/testify"
	_ "golang.org/x/lint/golint"
)
