package cli

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

// ConfigAction prints the scene config simulate would run with, after defaults, the config file
// and flag overrides are applied. The output can be passed back with --config.
func ConfigAction(c *cli.Context) error {
	cfg, err := simulationConfig(c)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "cannot encode scene config")
	}
	printf(c.App.Writer, "%s", out)
	return nil
}
