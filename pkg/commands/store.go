package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/acorn-io/acorn-registry/pkg/db"
	"github.com/acorn-io/acorn-registry/pkg/model"
	"github.com/acorn-io/acorn-registry/pkg/registry"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

func callerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "from",
			Usage:    "Address the call is sent from",
			EnvVars:  []string{"ACORN_FROM"},
			Required: true,
		},
		&cli.StringFlag{
			Name:  "value",
			Usage: "Value attached to the call, in wei",
			Value: "0",
		},
		&cli.Int64Flag{
			Name:  "timestamp",
			Usage: "Block time to execute the call at, in unix seconds (default: now)",
		},
	}
}

func openStore(c *cli.Context) (db.Database, error) {
	return db.New(c.Context, c.String("sql-dialect"), c.String("sql-dsn"), &gorm.Config{
		Logger: db.NewLogger(c.String("log-level")),
	})
}

// withRegistry opens the deployed registry for the duration of fn.
func withRegistry(c *cli.Context, fn func(r *registry.Registry) error) error {
	database, err := openStore(c)
	if err != nil {
		return err
	}
	defer closeStore(database)

	r, err := registry.Load(database)
	if err != nil {
		return writeError(c, err)
	}

	return fn(r)
}

func closeStore(database db.Database) {
	if err := database.Close(); err != nil {
		logrus.Warnf("closing registry store: %v", err)
	}
}

func parseAddress(flag, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%s: %q is not a valid address", flag, s)
	}
	return common.HexToAddress(s), nil
}

func parseCall(c *cli.Context) (registry.Call, error) {
	from, err := parseAddress("from", c.String("from"))
	if err != nil {
		return registry.Call{}, err
	}

	value, ok := new(big.Int).SetString(c.String("value"), 10)
	if !ok {
		return registry.Call{}, fmt.Errorf("value: %q is not an amount in wei", c.String("value"))
	}

	now := c.Int64("timestamp")
	if now == 0 {
		now = time.Now().Unix()
	}

	return registry.Call{Caller: from, Now: now, Value: value}, nil
}

func requireArgs(c *cli.Context, names ...string) error {
	if c.NArg() != len(names) {
		return fmt.Errorf("%w: expected %d arguments (%v), got %d", registry.ErrInvalidArgument, len(names), names, c.NArg())
	}
	return nil
}

func writeJSON(c *cli.Context, data interface{}) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// writeError prints err as an ErrorResponse and hands it back so the process
// still exits non-zero.
func writeError(c *cli.Context, err error) error {
	o := model.ErrorResponse{
		Status:  errorStatus(err),
		Message: err.Error(),
	}
	if werr := writeJSON(c, o); werr != nil {
		logrus.Errorf("writing error response: %v", werr)
	}
	return err
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, registry.ErrInvalidName), errors.Is(err, registry.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, registry.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, registry.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, registry.ErrDomainTaken), errors.Is(err, registry.ErrAlreadyDeployed):
		return http.StatusConflict
	case errors.Is(err, registry.ErrNotDeployed):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrDestroyed):
		return http.StatusGone
	}
	return http.StatusInternalServerError
}
