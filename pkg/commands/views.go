package commands

import (
	"github.com/acorn-io/acorn-registry/pkg/model"
	"github.com/acorn-io/acorn-registry/pkg/registry"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
)

func recordResponse(rec registry.Record, now int64) model.RecordResponse {
	resp := model.RecordResponse{
		Key:     rec.Key.Hex(),
		Name:    rec.Name,
		TLD:     rec.TLD,
		IP:      rec.IP,
		CID:     rec.CID,
		Expires: rec.Expires,
		Expired: rec.Expired(now),
	}
	if rec.Owner != (common.Address{}) {
		resp.Owner = rec.Owner.Hex()
	}
	return resp
}

func eventResponse(seq uint64, txID string, e registry.Event) model.EventResponse {
	resp := model.EventResponse{
		Seq:       seq,
		TxID:      txID,
		Event:     string(e.Kind()),
		Timestamp: e.Time(),
	}

	switch ev := e.(type) {
	case registry.DomainNameRegistered:
		resp.Name, resp.TLD = ev.Name, ev.TLD
	case registry.Receipt:
		resp.Name, resp.Expires = ev.Name, ev.Expires
		if ev.Amount != nil {
			resp.Amount = ev.Amount.String()
		}
	case registry.DomainNameIpEdited:
		resp.Name, resp.TLD, resp.NewIP = ev.Name, ev.TLD, ev.NewIP
	case registry.DomainNameCidEdited:
		resp.Name, resp.TLD, resp.NewCID = ev.Name, ev.TLD, ev.NewCID
	case registry.DomainNameTransferred:
		resp.Name, resp.TLD = ev.Name, ev.TLD
		resp.Owner, resp.NewOwner = ev.Owner.Hex(), ev.NewOwner.Hex()
	}

	return resp
}

func txResponse(res registry.Result) model.TxResponse {
	resp := model.TxResponse{TxID: res.TxID}
	for _, e := range res.Events {
		resp.Events = append(resp.Events, eventResponse(0, res.TxID, e))
	}
	return resp
}

// summary prints a one-line, human readable note next to the JSON output.
func summary(c *cli.Context, format string, args ...interface{}) {
	_, _ = okColor.Fprintf(c.App.ErrWriter, format+"\n", args...)
}

func warning(c *cli.Context, format string, args ...interface{}) {
	_, _ = warnColor.Fprintf(c.App.ErrWriter, format+"\n", args...)
}
