package main

import "github.com/devicelab-dev/uia2-bridge/pkg/cli"

func main() {
	cli.Execute()
}
