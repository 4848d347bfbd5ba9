package commands

import (
	"fmt"

	"github.com/acorn-io/acorn-registry/pkg/version"
	"github.com/urfave/cli/v2"
)

func execute(c *cli.Context) error {
	_, err := fmt.Fprintf(c.App.Writer, "%s\n", version.Get())
	return err
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "print version",
		Action: execute,
	}
}
