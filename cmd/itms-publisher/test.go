package main

import (
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/itms-toolkit/itms-publisher/pkg/config"
	"github.com/itms-toolkit/itms-publisher/pkg/errors"
	"github.com/itms-toolkit/itms-publisher/pkg/itms"
)

func newTestCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Check the iTMS connection or the publish configuration",
	}

	cmd.AddCommand(newTestConnectionCmd(g))
	cmd.AddCommand(newTestConfigurationCmd(g))
	return cmd
}

func newTestConnectionCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connection",
		Short: "Verify the iTMS server accepts the username and token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(cmd, serverBindings...)
			if err != nil {
				return err
			}

			token := cfg.Server.ResolveToken()
			if err := config.ValidateConnection(cfg.Server.URL, cfg.Server.Username, token); err != nil {
				return formError(err)
			}

			client := itms.New(cfg.Server.URL, itms.WithRequestID(uuid.NewString()))
			resp, err := client.TestConnection(cmd.Context(), itms.Credentials{
				Username: cfg.Server.Username,
				Token:    token,
			})
			if err != nil {
				return err
			}
			if !resp.OK() {
				return fmt.Errorf("connection to iTMS failed: %s", resp)
			}

			fmt.Fprintln(cmd.OutOrStdout(), config.MsgConnectionOK)
			return nil
		},
	}

	addServerFlags(cmd)
	return cmd
}

func newTestConfigurationCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configuration",
		Short: "Validate the publish settings without sending anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(cmd, publishBindings...)
			if err != nil {
				return err
			}

			p := cfg.Publish
			if err := config.ValidateConfiguration(cfg.SubmissionAddress(), p.ReportFolder, p.ProjectKey, p.TicketKey, p.CycleName); err != nil {
				return formError(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), config.MsgConfigurationOK)
			return nil
		},
	}

	addPublishFlags(cmd)
	return cmd
}

// formError reports a form check failure with its user facing message.
func formError(err error) error {
	var ve *config.ValidationError
	if stderrors.As(err, &ve) {
		return errors.ValidationError(ve.Message, nil).WithContext("field", ve.Field)
	}
	return errors.ValidationError("invalid input", err)
}
