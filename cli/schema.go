package cli

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/sceneindex/scene"
)

// SchemaAction prints the JSON schema of the scene config file read by simulate --config.
func SchemaAction(c *cli.Context) error {
	// The nested config types share the name Config, so they are inlined rather than referenced.
	reflector := &jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(&scene.Config{})
	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return errors.Wrap(err, "cannot encode schema")
	}
	printf(c.App.Writer, "%s", out)
	return nil
}
