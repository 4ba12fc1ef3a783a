package handlers

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewLandCmd groups land lifecycle subcommands (create, delete).
func NewLandCmd() *cobra.Command {
	landCmd := &cobra.Command{
		Use:   "land",
		Short: "Create or delete a land",
	}
	landCmd.AddCommand(newLandCreateCmd())
	landCmd.AddCommand(newLandDeleteCmd())
	return landCmd
}

func newLandCreateCmd() *cobra.Command {
	var description string
	var lang string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a new land",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			var langs []string
			for _, l := range strings.Split(lang, ",") {
				if l = strings.TrimSpace(l); l != "" {
					langs = append(langs, l)
				}
			}

			ok, l, err := svc.Create(cmd.Context(), args[0], description, langs)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "land already exists or name is invalid")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created land %q (id=%d)\n", l.Name, l.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "land description")
	cmd.Flags().StringVar(&lang, "lang", "fr", "comma-separated language codes, in priority order")
	return cmd
}

func newLandDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a land and everything it owns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			ok, err := svc.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "land not found")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted land %q\n", args[0])
			return nil
		},
	}
	return cmd
}
