package commands

import "github.com/urfave/cli/v2"

func GetCommands() []*cli.Command {
	return []*cli.Command{
		deployCmd(),
		priceCmd(),
		hashCmd(),
		getIPCmd(),
		getCIDCmd(),
		recordCmd(),
		balanceCmd(),
		registerCmd(),
		renewCmd(),
		editIPCmd(),
		editCIDCmd(),
		transferCmd(),
		withdrawCmd(),
		destroyCmd(),
		eventsCmd(),
		versionCommand(),
	}
}
