package commands

import (
	"context"
	"math/big"

	"github.com/acorn-io/acorn-registry/pkg/model"
	"github.com/acorn-io/acorn-registry/pkg/registry"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func adminCommand(name, usage string, destroy bool, op func(r *registry.Registry, ctx context.Context, call registry.Call) (*big.Int, error)) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Action: func(c *cli.Context) error {
			tx, err := parseCall(c)
			if err != nil {
				return err
			}

			return withRegistry(c, func(r *registry.Registry) error {
				amount, err := op(r, c.Context, tx)
				if err != nil {
					return writeError(c, err)
				}

				logrus.WithFields(logrus.Fields{
					"command": name,
					"admin":   tx.Caller.Hex(),
					"amount":  amount.String(),
				}).Info("funds moved to administrator")
				summary(c, "%s wei sent to %s", amount, tx.Caller.Hex())
				if destroy {
					warning(c, "registry %s is now disabled", r.Address().Hex())
				}

				return writeJSON(c, model.BalanceResponse{
					Address:   r.Address().Hex(),
					Admin:     r.Admin().Hex(),
					Balance:   "0",
					Withdrawn: amount.String(),
					Destroyed: destroy,
				})
			})
		},
		Flags:  append(append(callerFlags(), StoreFlags()...), GlobalFlags()...),
		Before: Before,
	}
}

func withdrawCmd() *cli.Command {
	return adminCommand("withdraw", "send the accumulated balance to the administrator", false, (*registry.Registry).Withdraw)
}

func destroyCmd() *cli.Command {
	return adminCommand("destroy", "permanently disable the registry", true, (*registry.Registry).Destroy)
}
