package main

import (
	"os"

	"github.com/notargets/steadyns/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
