package main

import (
	"fmt"
	"io"
	"os"

	"github.com/deepnoodle-ai/b64converter/errz"
	"github.com/fatih/color"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const usageLine = "Usage: b64converter <path-to-module-image>"

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line and returns the process exit status.
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(viper.New(), stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.Execute()
	if err != nil {
		printError(stderr, err)
		if errz.KindOf(err) == errz.ErrUsage {
			fmt.Fprintln(stderr, usageLine)
		}
	}
	return errz.ExitCode(err)
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, red(err.Error()))
}

func red(s string) string {
	return color.New(color.FgRed).Sprint(s)
}
