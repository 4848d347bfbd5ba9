package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/acorn-io/acorn-registry/pkg/model"
	"github.com/acorn-io/acorn-registry/pkg/registry"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/urfave/cli/v2"
)

const (
	adminAddr   = "0x00000000000000000000000000000000000000A1"
	ownerAddr   = "0x00000000000000000000000000000000000000B2"
	anotherAddr = "0x00000000000000000000000000000000000000C3"
	shortPrice  = "1500000000000000000"
)

type CommandsSuite struct {
	suite.Suite
	dir    string
	dsn    string
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func TestCommandsSuite(t *testing.T) {
	suite.Run(t, new(CommandsSuite))
}

func (s *CommandsSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.dsn = filepath.Join(s.dir, "registry.bolt")
}

// run executes one command against the suite's store. Flags must come before
// positional arguments.
func (s *CommandsSuite) run(command string, args ...string) error {
	return s.exec(append([]string{command, "--sql-dialect", "bolt", "--sql-dsn", s.dsn}, args...)...)
}

func (s *CommandsSuite) exec(args ...string) error {
	s.stdout = &bytes.Buffer{}
	s.stderr = &bytes.Buffer{}

	app := cli.NewApp()
	app.Name = "acorn-registry"
	app.Commands = GetCommands()
	app.Writer = s.stdout
	app.ErrWriter = s.stderr
	app.ExitErrHandler = func(*cli.Context, error) {}

	return app.Run(append([]string{"acorn-registry"}, args...))
}

func (s *CommandsSuite) deploy() model.Descriptor {
	out := filepath.Join(s.dir, "artifacts", "deployed.json")
	s.Require().NoError(s.run("deploy", "--from", adminAddr, "--out", out, "--network-id", "1337", "--network-name", "localnode", "--url", "http://127.0.0.1:8545/"))

	d, err := model.ReadDescriptor(out)
	s.Require().NoError(err)
	return d
}

func (s *CommandsSuite) TestDeployWritesDescriptor() {
	d := s.deploy()

	var printed model.Descriptor
	s.Require().NoError(json.Unmarshal(s.stdout.Bytes(), &printed))
	s.Equal(d, printed)
	s.Equal("1337", d.NetworkID)
	s.Equal("localnode", d.NetworkName)
	s.Equal("http://127.0.0.1:8545/", d.URL)
	s.True(strings.HasPrefix(d.Address, "0x"))

	s.Error(s.run("deploy", "--from", adminAddr, "--out", filepath.Join(s.dir, "again.json")))
	s.Contains(s.stdout.String(), `"status": 409`)
}

func (s *CommandsSuite) TestRegisterAndResolve() {
	s.deploy()

	s.Require().NoError(s.run("price", "domain"))
	var price model.PriceResponse
	s.Require().NoError(json.Unmarshal(s.stdout.Bytes(), &price))
	s.Equal(shortPrice, price.Price)

	s.Require().NoError(s.run("register", "--from", ownerAddr, "--value", shortPrice, "--timestamp", "1600000000", "domain", ".com", "127.0.0.1"))
	var tx model.TxResponse
	s.Require().NoError(json.Unmarshal(s.stdout.Bytes(), &tx))
	s.NotEmpty(tx.TxID)
	s.Require().Len(tx.Events, 2)
	s.Equal("DomainNameRegistered", tx.Events[0].Event)
	s.Equal("Receipt", tx.Events[1].Event)
	s.Equal(shortPrice, tx.Events[1].Amount)
	s.Equal(int64(1600000000+31536000), tx.Events[1].Expires)

	s.Require().NoError(s.run("get-ip", "domain", ".com"))
	s.Equal("127.0.0.1\n", s.stdout.String())

	s.Require().NoError(s.run("edit-cid", "--from", ownerAddr, "--timestamp", "1600000001", "domain", ".com", "/ipfs/bafy"))
	s.Require().NoError(s.run("get-cid", "domain", ".com"))
	s.Equal("/ipfs/bafy\n", s.stdout.String())

	s.Require().NoError(s.run("record", "domain", ".com"))
	var rec model.RecordResponse
	s.Require().NoError(json.Unmarshal(s.stdout.Bytes(), &rec))
	s.Equal(registry.GetDomainHash("domain", ".com").Hex(), rec.Key)
	s.Equal(checksum(ownerAddr), rec.Owner)
	s.Equal("/ipfs/bafy", rec.CID)

	s.Require().NoError(s.run("record", rec.Key))
	var byKey model.RecordResponse
	s.Require().NoError(json.Unmarshal(s.stdout.Bytes(), &byKey))
	s.Equal(rec, byKey)
}

func (s *CommandsSuite) TestRejectedCalls() {
	s.deploy()
	s.Require().NoError(s.run("register", "--from", ownerAddr, "--value", shortPrice, "--timestamp", "1600000000", "domain", ".com", "127.0.0.1"))

	s.Error(s.run("register", "--from", anotherAddr, "--value", shortPrice, "--timestamp", "1600000010", "domain", ".com", "10.0.0.1"))
	s.Contains(s.stdout.String(), `"status": 409`)

	s.Error(s.run("edit-ip", "--from", anotherAddr, "domain", ".com", "10.0.0.1"))
	s.Contains(s.stdout.String(), `"status": 403`)

	s.Error(s.run("transfer", "--from", ownerAddr, "domain", ".com", "0x0000000000000000000000000000000000000000"))
	s.Contains(s.stdout.String(), `"status": 400`)

	s.Error(s.run("register", "--from", ownerAddr, "--value", shortPrice, "short", ".com", "127.0.0.1"))
	s.Contains(s.stdout.String(), `"status": 400`)

	s.Error(s.run("register", "--from", ownerAddr, "--value", "1", "another", ".com", "127.0.0.1"))
	s.Contains(s.stdout.String(), `"status": 402`)

	s.Error(s.run("register", "--from", "not-an-address", "--value", shortPrice, "another", ".com", "127.0.0.1"))
	s.Error(s.run("register", "--from", ownerAddr, "--value", shortPrice, "another", ".com"))
}

func (s *CommandsSuite) TestWithdrawAndDestroy() {
	s.deploy()
	s.Require().NoError(s.run("register", "--from", ownerAddr, "--value", shortPrice, "domain", ".com", "127.0.0.1"))

	s.Error(s.run("withdraw", "--from", ownerAddr))
	s.Contains(s.stdout.String(), `"status": 403`)

	s.Require().NoError(s.run("withdraw", "--from", adminAddr))
	var withdrawn model.BalanceResponse
	s.Require().NoError(json.Unmarshal(s.stdout.Bytes(), &withdrawn))
	s.Equal(shortPrice, withdrawn.Withdrawn)

	s.Require().NoError(s.run("balance"))
	var balance model.BalanceResponse
	s.Require().NoError(json.Unmarshal(s.stdout.Bytes(), &balance))
	s.Equal("0", balance.Balance)
	s.Equal(checksum(adminAddr), balance.Admin)

	s.Require().NoError(s.run("destroy", "--from", adminAddr))
	s.Error(s.run("edit-ip", "--from", ownerAddr, "domain", ".com", "10.0.0.1"))
	s.Contains(s.stdout.String(), `"status": 410`)

	s.Require().NoError(s.run("get-ip", "domain", ".com"))
	s.Equal("127.0.0.1\n", s.stdout.String())
}

func (s *CommandsSuite) TestEvents() {
	s.deploy()
	s.Require().NoError(s.run("register", "--from", ownerAddr, "--value", shortPrice, "--timestamp", "1600000000", "domain", ".com", "127.0.0.1"))
	s.Require().NoError(s.run("transfer", "--from", ownerAddr, "--timestamp", "1600000005", "domain", ".com", anotherAddr))

	s.Require().NoError(s.run("events"))
	lines := strings.Split(strings.TrimSpace(s.stdout.String()), "\n")
	s.Require().Len(lines, 3)

	var last model.EventResponse
	s.Require().NoError(json.Unmarshal([]byte(lines[2]), &last))
	s.Equal("DomainNameTransferred", last.Event)
	s.Equal(checksum(ownerAddr), last.Owner)
	s.Equal(checksum(anotherAddr), last.NewOwner)
	s.Equal(uint64(3), last.Seq)

	s.Require().NoError(s.run("events", "--after", "1", "--limit", "1"))
	lines = strings.Split(strings.TrimSpace(s.stdout.String()), "\n")
	s.Require().Len(lines, 1)
	s.Contains(lines[0], `"Receipt"`)
}

func (s *CommandsSuite) TestReadFailuresPrintErrorResponse() {
	s.deploy()

	s.Error(s.run("record", "0x1234"))
	var resp model.ErrorResponse
	s.Require().NoError(json.Unmarshal(s.stdout.Bytes(), &resp))
	s.Equal(400, resp.Status)
	s.Contains(resp.Message, "not a domain key")

	s.Error(s.run("get-ip", "domain"))
	s.Contains(s.stdout.String(), `"status": 400`)
}

func TestDefaultStoreWaitsForLocks(t *testing.T) {
	for _, f := range StoreFlags() {
		if sf, ok := f.(*cli.StringFlag); ok && sf.Name == "sql-dsn" {
			assert.Contains(t, sf.Value, "busy_timeout(5000)")
			return
		}
	}
	t.Fatal("sql-dsn flag not found")
}

func (s *CommandsSuite) TestHash() {
	s.Require().NoError(s.exec("hash", "domain", ".com"))
	s.Equal(registry.GetDomainHash("domain", ".com").Hex()+"\n", s.stdout.String())
}

func (s *CommandsSuite) TestNotDeployed() {
	s.Error(s.run("get-ip", "domain", ".com"))
	s.Contains(s.stdout.String(), `"status": 404`)
}

func checksum(addr string) string {
	return common.HexToAddress(addr).Hex()
}

func TestDeployConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pricing:
  baseCost: "100"
  shortSurcharge: "25"
network:
  id: "5777"
  name: ganache
  url: http://172.26.32.1:7545/
`), 0644))

	cfg, err := loadDeployConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "5777", cfg.Network.ID)
	assert.Equal(t, "ganache", cfg.Network.Name)

	pricing, err := cfg.pricing()
	require.NoError(t, err)
	assert.Equal(t, "100", pricing.BaseCost.String())
	assert.Equal(t, "25", pricing.ShortSurcharge.String())
}

func TestDeployConfigDefaults(t *testing.T) {
	cfg, err := loadDeployConfig("")
	require.NoError(t, err)

	pricing, err := cfg.pricing()
	require.NoError(t, err)
	assert.Equal(t, registry.DefaultPricing(), pricing)
}

func TestDeployConfigRejectsBadAmount(t *testing.T) {
	var cfg deployConfig
	cfg.Pricing.BaseCost = "lots"
	_, err := cfg.pricing()
	assert.Error(t, err)
}
