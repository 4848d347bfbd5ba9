package commands

import (
	"fmt"
	"math/big"
	"os"

	"github.com/acorn-io/acorn-registry/pkg/model"
	"github.com/acorn-io/acorn-registry/pkg/registry"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

type deployConfig struct {
	Pricing struct {
		BaseCost       string `yaml:"baseCost,omitempty"`
		ShortSurcharge string `yaml:"shortSurcharge,omitempty"`
	} `yaml:"pricing,omitempty"`
	Network struct {
		ID   string `yaml:"id,omitempty"`
		Name string `yaml:"name,omitempty"`
		URL  string `yaml:"url,omitempty"`
	} `yaml:"network,omitempty"`
}

func loadDeployConfig(path string) (deployConfig, error) {
	var cfg deployConfig
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func (cfg deployConfig) pricing() (registry.Pricing, error) {
	pricing := registry.DefaultPricing()

	if cfg.Pricing.BaseCost != "" {
		v, ok := new(big.Int).SetString(cfg.Pricing.BaseCost, 10)
		if !ok {
			return pricing, fmt.Errorf("pricing.baseCost: %q is not an amount in wei", cfg.Pricing.BaseCost)
		}
		pricing.BaseCost = v
	}
	if cfg.Pricing.ShortSurcharge != "" {
		v, ok := new(big.Int).SetString(cfg.Pricing.ShortSurcharge, 10)
		if !ok {
			return pricing, fmt.Errorf("pricing.shortSurcharge: %q is not an amount in wei", cfg.Pricing.ShortSurcharge)
		}
		pricing.ShortSurcharge = v
	}

	return pricing, pricing.Validate()
}

type deployCommand struct{}

func (d *deployCommand) Execute(c *cli.Context) error {
	log := logrus.WithField("command", "deploy")

	cfg, err := loadDeployConfig(c.String("config"))
	if err != nil {
		return err
	}
	pricing, err := cfg.pricing()
	if err != nil {
		return err
	}

	admin, err := parseAddress("from", c.String("from"))
	if err != nil {
		return err
	}

	database, err := openStore(c)
	if err != nil {
		return err
	}
	defer closeStore(database)

	r, err := registry.Deploy(c.Context, database, admin, pricing)
	if err != nil {
		return writeError(c, err)
	}

	descriptor := model.Descriptor{
		Address:     r.Address().Hex(),
		NetworkID:   firstSet(c.String("network-id"), cfg.Network.ID),
		NetworkName: firstSet(c.String("network-name"), cfg.Network.Name),
		URL:         firstSet(c.String("url"), cfg.Network.URL),
	}
	if err := model.WriteDescriptor(c.String("out"), descriptor); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"address": descriptor.Address,
		"admin":   admin.Hex(),
	}).Info("registry deployed")
	summary(c, "registry deployed to %s, descriptor written to %s", descriptor.Address, c.String("out"))

	return writeJSON(c, descriptor)
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func deployCmd() *cli.Command {
	cmd := deployCommand{}

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "from",
			Usage:    "Address of the registry administrator",
			EnvVars:  []string{"ACORN_FROM"},
			Required: true,
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "YAML file with pricing and network settings",
			EnvVars: []string{"ACORN_REGISTRY_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "Where to write the deployment descriptor",
			Value: "artifacts/deployed.json",
		},
		&cli.StringFlag{
			Name:  "network-id",
			Usage: "Network id recorded in the descriptor",
		},
		&cli.StringFlag{
			Name:  "network-name",
			Usage: "Network name recorded in the descriptor",
		},
		&cli.StringFlag{
			Name:  "url",
			Usage: "Endpoint recorded in the descriptor",
		},
	}

	return &cli.Command{
		Name:   "deploy",
		Usage:  "initialize a new registry and write its descriptor",
		Action: cmd.Execute,
		Flags:  append(append(flags, StoreFlags()...), GlobalFlags()...),
		Before: Before,
	}
}
