package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newPolicyCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "policy",
		Short: "Print the effective policy as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			encoder := yaml.NewEncoder(c.stdout)
			encoder.SetIndent(2)
			if err := encoder.Encode(c.config.Policy); err != nil {
				return err
			}
			return encoder.Close()
		},
	}
}
