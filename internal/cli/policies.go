package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// newPoliciesCmd creates the policies command, which lists the configured
// license policies and their allow/disallow lists.
func newPoliciesCmd() *cobra.Command {
	var policyFile string

	cmd := &cobra.Command{
		Use:   "policies",
		Short: "List configured license policies",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			policies, err := loadPolicies(policyFile)
			if err != nil {
				return err
			}
			for _, name := range policies.Names() {
				p, _ := policies.Get(name)
				fmt.Println(StyleTitle.Render(name))
				printDetail("allowed:    %s", strings.Join(p.Allowed, ", "))
				printDetail("disallowed: %s", strings.Join(p.Disallowed, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&policyFile, "policy-file", "", "TOML file with policy definitions")
	return cmd
}
