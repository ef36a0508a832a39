package main

//go-build: CGO_ENABLED=0

import (
	"github.com/serialkit/ringrx/pkg/cli/sh"
	"github.com/serialkit/ringrx/pkg/client"
)

func init() {
	client.SetupFlags()
}

func main() {
	sh.Main()
}
