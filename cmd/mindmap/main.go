// Command mindmap is a terminal mind-map editor with headless render and
// export commands.
package main

import (
	"os"

	"github.com/vanderheijden86/mindmap/internal/cli"
)

func main() {
	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
