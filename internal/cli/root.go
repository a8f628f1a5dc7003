package cli

import "github.com/spf13/cobra"

// RootCmd assembles clmsctl.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "clmsctl",
		Short: "Offline tools for CLMS knowledge graphs",
		Long: `clmsctl works on knowledge graph files (YAML or JSON) without a running
server: flatten them into the skill projection, search skills by id and
validate files before seeding. It can also mint development tokens.`,
		SilenceUsage: true,
	}
	root.AddCommand(FlattenCmd())
	root.AddCommand(SearchCmd())
	root.AddCommand(ValidateCmd())
	root.AddCommand(TokenCmd())
	return root
}
