package main

import (
	"strings"

	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
)

// EnvReplacer replaces `-` to `_`.
// This is used to map flag like `--my-param` to environment variables like `MY_PARAM`.
var envReplacer = strings.NewReplacer("-", "_")

func init() {
	viper.SetEnvPrefix("NFTBRIDGE_CLI")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(envReplacer)
}

// stringFlag returns the value of the named flag, falling back to the NFTBRIDGE_CLI_ env var.
func stringFlag(ctx *cli.Context, name string) string {
	if value := ctx.String(name); value != "" {
		return value
	}
	return viper.GetString(name)
}
