package cli

import (
	"github.com/spf13/cobra"
)

// AdvancedFlags hides the named flags from cmd's default --help
// output. They reappear when the command is invoked with
// --show-advanced or --show-all, for commands whose full flag set is
// too wide to show a beginner by default.
func AdvancedFlags(cmd *cobra.Command, names ...string) {
	registerDisclosureFlags(cmd)

	defaultHelp := cmd.HelpFunc()
	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		showAdvanced, _ := c.Flags().GetBool("show-advanced")
		showAll, _ := c.Flags().GetBool("show-all")
		reveal := showAdvanced || showAll

		for _, name := range names {
			if f := c.Flags().Lookup(name); f != nil {
				f.Hidden = !reveal
			}
		}
		defaultHelp(c, args)
	})
}

func registerDisclosureFlags(cmd *cobra.Command) {
	if cmd.Flags().Lookup("show-advanced") == nil {
		cmd.Flags().Bool("show-advanced", false, "show advanced flags in --help")
	}
	if cmd.Flags().Lookup("show-all") == nil {
		cmd.Flags().Bool("show-all", false, "show every flag, including expert options, in --help")
	}
}
