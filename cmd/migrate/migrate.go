package migrate

import (
	"fmt"

	"travel-journal/config"
	"travel-journal/internal/global/database"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
)

const configFlag = "config"

var flags = map[string]cobraflags.Flag{
	configFlag: &cobraflags.StringFlag{
		Name:  configFlag,
		Value: "",
		Usage: "Path to config.yaml",
	},
}

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the trip and entry tables in MySQL",
		RunE:  migrateCommand,
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func migrateCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flags[configFlag].GetString())
	if err != nil {
		return err
	}
	config.Set(cfg)

	if err := database.Init(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "migrated %s@%s:%s/%s\n", cfg.Mysql.Username, cfg.Mysql.Host, cfg.Mysql.Port, cfg.Mysql.DBName)
	return nil
}
