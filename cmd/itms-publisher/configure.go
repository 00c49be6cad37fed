package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itms-toolkit/itms-publisher/pkg/config"
)

type configureFlags struct {
	server   string
	username string
	token    string
	tokenEnv string
}

func newConfigureCmd(g *globalOptions) *cobra.Command {
	opts := &configureFlags{}

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Save the iTMS server address and credentials",
		Long: `Save the iTMS server address and credentials to the global config
file ($HOME/` + config.GlobalConfigDir + `/` + config.GlobalConfigFile + `), or to --config when given.
The file is readable by its owner only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// either an inline token or the variable holding it
			if err := config.ValidateConnection(opts.server, opts.username, opts.token+opts.tokenEnv); err != nil {
				return formError(err)
			}
			if !config.IsValidURL(opts.server) {
				return formError(&config.ValidationError{Field: "server.url", Value: opts.server, Message: config.MsgInvalidURL})
			}

			path := g.configFile
			if path == "" {
				path = config.NewLoader().WithHomeDir(g.homeDir).GlobalPath()
			}

			if err := config.SaveServer(path, config.ServerConfig{
				URL:      opts.server,
				Username: opts.username,
				Token:    opts.token,
				TokenEnv: opts.tokenEnv,
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved iTMS server settings to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.server, "server", "", "iTMS server address")
	cmd.Flags().StringVar(&opts.username, "username", "", "iTMS username")
	cmd.Flags().StringVar(&opts.token, "token", "", "iTMS token")
	cmd.Flags().StringVar(&opts.tokenEnv, "token-env", "", "read the token from this environment variable instead of storing it")

	return cmd
}
