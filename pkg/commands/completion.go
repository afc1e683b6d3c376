package commands

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/recess/pkg/config"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(recess completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(recess completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

func registerGroupCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("group", func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		c, err := config.Load()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return groupCompletions(c, toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}

// groupCompletions lists the configured group, the combined keys and their
// members that start with toComplete.
func groupCompletions(c *config.Config, toComplete string) []string {
	seen := map[string]bool{}
	add := func(g string) {
		g = strings.ToUpper(strings.TrimSpace(g))
		if g != "" && strings.HasPrefix(g, strings.ToUpper(toComplete)) {
			seen[g] = true
		}
	}
	add(c.Group)
	if rules, err := c.Rules(); err == nil {
		for key, members := range rules.Combined {
			add(key)
			for _, m := range members {
				add(m)
			}
		}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}
