package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.BuildVersion=..."
var (
	BuildBranch  string
	BuildVersion string
	BuildTime    string
	Builder      string
)

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "show version",
	Long:  ``,
	Run: func(*cobra.Command, []string) {
		printVersion(os.Stdout)
	},
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "\033[36m%-16s\033[0m %s\n", "BuildBranch", BuildBranch)
	fmt.Fprintf(w, "\033[36m%-16s\033[0m %s\n", "BuildVersion", BuildVersion)
	fmt.Fprintf(w, "\033[36m%-16s\033[0m %s\n", "BuildTime", BuildTime)
	fmt.Fprintf(w, "\033[36m%-16s\033[0m %s\n", "Builder", Builder)
}
