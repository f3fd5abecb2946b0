package cli

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

// printf prints a line to w, ignoring write errors.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	_, _ = fmt.Fprintf(w, format+"\n", a...)
}

// VersionAction prints the version of the running binary.
func VersionAction(c *cli.Context) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return errors.New("error reading build info")
	}
	if c.Bool(debugFlag) {
		printf(c.App.Writer, "%s", info.String())
	}
	settings := make(map[string]string, len(info.Settings))
	for _, setting := range info.Settings {
		settings[setting.Key] = setting.Value
	}
	version := "?"
	if rev, ok := settings["vcs.revision"]; ok && len(rev) >= 8 {
		version = rev[:8]
		if settings["vcs.modified"] == "true" {
			version += "+"
		}
	}
	appVersion := info.Main.Version
	if appVersion == "" || appVersion == "(devel)" {
		appVersion = "(dev)"
	}
	printf(c.App.Writer, "Version %s Git=%s Go=%s", appVersion, version, info.GoVersion)
	return nil
}
