package commands

import (
	"fmt"
	"time"

	"github.com/acorn-io/acorn-registry/pkg/model"
	"github.com/acorn-io/acorn-registry/pkg/registry"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
)

func readCommand(name, usage, argsUsage string, action func(c *cli.Context, r *registry.Registry) error) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: argsUsage,
		Action: func(c *cli.Context) error {
			return withRegistry(c, func(r *registry.Registry) error {
				if err := action(c, r); err != nil {
					return writeError(c, err)
				}
				return nil
			})
		},
		Flags:  append(StoreFlags(), GlobalFlags()...),
		Before: Before,
	}
}

func priceCmd() *cli.Command {
	return readCommand("price", "price of registering or renewing a name, in wei", "NAME",
		func(c *cli.Context, r *registry.Registry) error {
			if err := requireArgs(c, "NAME"); err != nil {
				return err
			}
			name := c.Args().First()
			if len(name) <= registry.DomainNameMinLength {
				warning(c, "%q is too short to be registered", name)
			}
			return writeJSON(c, model.PriceResponse{Name: name, Price: r.GetPrice(name).String()})
		})
}

func getIPCmd() *cli.Command {
	return readCommand("get-ip", "resolve a domain to its ip", "NAME TLD",
		func(c *cli.Context, r *registry.Registry) error {
			if err := requireArgs(c, "NAME", "TLD"); err != nil {
				return err
			}
			ip, err := r.GetIP(c.Args().Get(0), c.Args().Get(1))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.App.Writer, ip)
			return err
		})
}

func getCIDCmd() *cli.Command {
	return readCommand("get-cid", "resolve a domain to its content identifier", "NAME TLD",
		func(c *cli.Context, r *registry.Registry) error {
			if err := requireArgs(c, "NAME", "TLD"); err != nil {
				return err
			}
			cid, err := r.GetCID(c.Args().Get(0), c.Args().Get(1))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.App.Writer, cid)
			return err
		})
}

func recordCmd() *cli.Command {
	return readCommand("record", "show the raw record stored under a domain key, or under NAME TLD", "KEY | NAME TLD",
		func(c *cli.Context, r *registry.Registry) error {
			var key common.Hash
			switch c.NArg() {
			case 1:
				s := c.Args().First()
				b, err := hexutil.Decode(s)
				if err != nil || len(b) != common.HashLength {
					return fmt.Errorf("%w: %q is not a domain key", registry.ErrInvalidArgument, s)
				}
				key = common.BytesToHash(b)
			case 2:
				key = registry.GetDomainHash(c.Args().Get(0), c.Args().Get(1))
			default:
				return requireArgs(c, "KEY")
			}

			rec, err := r.GetRecord(key)
			if err != nil {
				return err
			}
			return writeJSON(c, recordResponse(rec, time.Now().Unix()))
		})
}

func balanceCmd() *cli.Command {
	return readCommand("balance", "show the registry's accumulated balance", "",
		func(c *cli.Context, r *registry.Registry) error {
			balance, err := r.Balance()
			if err != nil {
				return err
			}
			destroyed, err := r.Destroyed()
			if err != nil {
				return err
			}
			return writeJSON(c, model.BalanceResponse{
				Address:   r.Address().Hex(),
				Admin:     r.Admin().Hex(),
				Balance:   balance.String(),
				Destroyed: destroyed,
			})
		})
}

func hashCmd() *cli.Command {
	return &cli.Command{
		Name:      "hash",
		Usage:     "print the domain key of NAME TLD",
		ArgsUsage: "NAME TLD",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, "NAME", "TLD"); err != nil {
				return err
			}
			_, err := fmt.Fprintln(c.App.Writer, registry.GetDomainHash(c.Args().Get(0), c.Args().Get(1)).Hex())
			return err
		},
		Flags:  GlobalFlags(),
		Before: Before,
	}
}
