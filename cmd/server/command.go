package server

import (
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
)

const configFlag = "config"

var flags = map[string]cobraflags.Flag{
	configFlag: &cobraflags.StringFlag{
		Name:  configFlag,
		Value: "",
		Usage: "Path to config.yaml (defaults to ./config.yaml or ./config/config.yaml)",
	},
}

func NewServerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the travel journal HTTP API",
		RunE: func(_ *cobra.Command, _ []string) error {
			Init(flags[configFlag].GetString())
			Run()
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}
