package main

import (
	"fmt"
	"os"

	"github.com/llehouerou/wavecast/cmd"
)

var version = "dev"

func main() {
	if err := cmd.RootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
