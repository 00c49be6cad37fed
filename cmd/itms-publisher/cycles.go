package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/itms-toolkit/itms-publisher/pkg/config"
	"github.com/itms-toolkit/itms-publisher/pkg/errors"
	"github.com/itms-toolkit/itms-publisher/pkg/itms"
)

func newCyclesCmd(g *globalOptions) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "cycles",
		Short: "List the test cycles of an iTMS project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(cmd, serverBindings...)
			if err != nil {
				return err
			}
			if cfg.Server.URL == "" {
				return errors.ValidationError(config.MsgServerRequired, nil)
			}

			client := itms.New(cfg.Server.URL, itms.WithRequestID(uuid.NewString()))
			cycles, resp, err := client.Cycles(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			if !resp.OK() {
				return fmt.Errorf("failed to list cycles: %s", resp)
			}

			for _, c := range cycles {
				fmt.Fprintln(cmd.OutOrStdout(), c.Name)
			}
			return nil
		},
	}

	addServerFlags(cmd)
	cmd.Flags().StringVar(&projectID, "project-id", "", "iTMS project id")
	_ = cmd.MarkFlagRequired("project-id")

	return cmd
}
