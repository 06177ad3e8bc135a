package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	setio "github.com/matzehuels/scenegen/pkg/io"
	"github.com/matzehuels/scenegen/pkg/placement"
)

// verifyCommand creates the verify command.
func (c *CLI) verifyCommand() *cobra.Command {
	var constraints bool

	cmd := &cobra.Command{
		Use:   "verify <set.json>",
		Short: "Check a placement set against the non-overlap rules",
		Long: `Verify re-checks every item of a set: count, kinds, floor contact, the
unscaled vertical extent, lopsidedness and the shrink threshold against all
earlier items. Use - to read the set from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := setio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			if err := placement.Verify(set); err != nil {
				printError("%s is not a valid placement", args[0])
				return err
			}
			printSuccess("%s is a valid placement", args[0])
			printSetStats(set, false)
			if constraints {
				printConstraints(set)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&constraints, "constraints", false, "list which earlier item bound each item's size")
	return cmd
}

func printConstraints(set *placement.Set) {
	fmt.Println()
	for _, con := range placement.Constraints(set) {
		it := set.Items[con.Item]
		if con.Binding < 0 {
			printDetail("obj%d %-6s unconstrained", con.Item, it.Kind)
			continue
		}
		printDetail("obj%d %-6s bound by obj%d at %.3f (kept %.3f)", con.Item, it.Kind, con.Binding, con.Scale, it.Scale)
	}
}
