package main

import (
	"os"

	"github.com/ivishalgandhi/tw-cli-utils/cmd/tw/cmd"
)

func main() {
	os.Exit(cmd.Execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
