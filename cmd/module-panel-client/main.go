package main

import (
	"os"

	"github.com/bayleafwalker/bindery-panel/internal/clientcmd"
	"github.com/bayleafwalker/bindery-panel/internal/output"
)

func main() {
	if err := clientcmd.NewRootCmd(nil).Execute(); err != nil {
		output.Error("command failed", "error", err)
		os.Exit(1)
	}
}
