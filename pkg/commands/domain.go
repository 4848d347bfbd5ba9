package commands

import (
	"strings"

	"github.com/acorn-io/acorn-registry/pkg/registry"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// writeCommand wires a mutating registry call: it parses the caller context,
// runs the call and prints the resulting events.
func writeCommand(name, usage string, args []string, call func(c *cli.Context, r *registry.Registry, tx registry.Call) (registry.Result, error)) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: strings.Join(args, " "),
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, args...); err != nil {
				return err
			}
			tx, err := parseCall(c)
			if err != nil {
				return err
			}

			return withRegistry(c, func(r *registry.Registry) error {
				res, err := call(c, r, tx)
				if err != nil {
					return writeError(c, err)
				}

				logrus.WithFields(logrus.Fields{
					"command": name,
					"txId":    res.TxID,
					"from":    tx.Caller.Hex(),
					"events":  len(res.Events),
				}).Debug("call committed")
				summary(c, "%s committed in %s", name, res.TxID)

				return writeJSON(c, txResponse(res))
			})
		},
		Flags:  append(append(callerFlags(), StoreFlags()...), GlobalFlags()...),
		Before: Before,
	}
}

func registerCmd() *cli.Command {
	return writeCommand("register", "register a domain for one year, paying --value", []string{"NAME", "TLD", "IP"},
		func(c *cli.Context, r *registry.Registry, tx registry.Call) (registry.Result, error) {
			return r.Register(c.Context, tx, c.Args().Get(0), c.Args().Get(1), c.Args().Get(2))
		})
}

func renewCmd() *cli.Command {
	return writeCommand("renew", "renew a domain for one year from now, paying --value", []string{"NAME", "TLD"},
		func(c *cli.Context, r *registry.Registry, tx registry.Call) (registry.Result, error) {
			return r.RenewDomainName(c.Context, tx, c.Args().Get(0), c.Args().Get(1))
		})
}

func editIPCmd() *cli.Command {
	return writeCommand("edit-ip", "change the ip a domain resolves to", []string{"NAME", "TLD", "IP"},
		func(c *cli.Context, r *registry.Registry, tx registry.Call) (registry.Result, error) {
			return r.EditIP(c.Context, tx, c.Args().Get(0), c.Args().Get(1), c.Args().Get(2))
		})
}

func editCIDCmd() *cli.Command {
	return writeCommand("edit-cid", "change the content identifier (DNSLink) of a domain", []string{"NAME", "TLD", "CID"},
		func(c *cli.Context, r *registry.Registry, tx registry.Call) (registry.Result, error) {
			return r.EditCID(c.Context, tx, c.Args().Get(0), c.Args().Get(1), c.Args().Get(2))
		})
}

func transferCmd() *cli.Command {
	return writeCommand("transfer", "hand a domain to a new owner", []string{"NAME", "TLD", "NEW_OWNER"},
		func(c *cli.Context, r *registry.Registry, tx registry.Call) (registry.Result, error) {
			newOwner, err := parseAddress("NEW_OWNER", c.Args().Get(2))
			if err != nil {
				return registry.Result{}, err
			}
			return r.TransferDomain(c.Context, tx, c.Args().Get(0), c.Args().Get(1), newOwner)
		})
}
