package cli

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dshills/bbake/internal/config"
	"github.com/dshills/bbake/internal/resolve"
	"github.com/spf13/cobra"
)

var (
	flagTuskDir    string
	flagLaunchDir  string
	flagConfigDir  string
	flagDocDir     string
	flagNodesDir   string
	flagProfile    string
	flagConsensus  = newChoice("", resolve.Consensuses...)
	flagDeployMode = newChoice("", resolve.DeployModes...)
	flagRaw        bool
)

func newResolver(cmd *cobra.Command) *resolve.Resolver {
	return resolve.New(lookupEnv, cmd.OutOrStdout(), logger)
}

var newConfigCmd = &cobra.Command{
	Use:   "new-config [config] [configvars...]",
	Short: "Create bench.json from profiles and BBAKE_ overrides",
	Long: `Create <configdir>/bench.json by layering the standard profiles for the
consensus and deploy mode, the optional user profile, and the BBAKE_
environment variables named by configvars.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var vars []string
		if len(args) > 0 {
			if name := args[0]; name != "" && filepath.Base(name) != config.DefaultName {
				logger.Warn("config argument ignored, writing the default name",
					slog.String("config", name), slog.String("name", config.DefaultName))
			}
			vars = splitFields(args[1:])
		}

		_, err := newResolver(cmd).NewConfig(resolve.Options{
			Consensus:  flagConsensus.String(),
			DeployMode: flagDeployMode.String(),
			ConfigDir:  flagConfigDir,
			LaunchDir:  flagLaunchDir,
			TuskDir:    flagTuskDir,
			NodesDir:   flagNodesDir,
			Profile:    flagProfile,
			ConfigVars: vars,
		})
		return err
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <config> [configvars...]",
	Short: "Write BBAKE_ values back into an existing document",
	Args:  usageArgs(cobra.MinimumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newResolver(cmd).Update(args[0], splitFields(args[1:]))
	},
}

var requireCmd = &cobra.Command{
	Use:   "require <config> [required...]",
	Short: "Check that a document has every required key",
	Args:  usageArgs(cobra.MinimumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newResolver(cmd).Require(flagDocDir, args[0], splitFields(args[1:]))
	},
}

var shellExportCmd = &cobra.Command{
	Use:   "shell-export <config>",
	Short: "Print export statements for every key of a document",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newResolver(cmd).ShellExport(flagDocDir, args[0])
	},
}

var getCmd = &cobra.Command{
	Use:   "get <config> <path>",
	Short: "Print the value at a path such as nodes.0.name",
	Args:  usageArgs(cobra.ExactArgs(2)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newResolver(cmd).Get(flagDocDir, args[0], args[1])
	},
}

var setCmd = &cobra.Command{
	Use:   "set <config> <path> <value>",
	Short: "Set the value at a path and rewrite the document",
	Args:  usageArgs(cobra.ExactArgs(3)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newResolver(cmd).Set(flagDocDir, args[0], args[1], args[2], flagRaw)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <config>",
	Short: "Print a document in canonical form",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newResolver(cmd).Show(flagDocDir, args[0])
	},
}

func init() {
	f := newConfigCmd.Flags()
	f.StringVar(&flagTuskDir, "tuskdir", "", "Directory holding the standard configs/ profiles")
	f.StringVar(&flagLaunchDir, "launchdir", "", "Directory user profiles and relative paths resolve against")
	f.StringVar(&flagConfigDir, "configdir", "", "Directory bench.json is written to, relative to launchdir")
	f.Var(flagConsensus, "consensus", "Consensus protocol: "+strings.Join(resolve.Consensuses, ", "))
	f.Var(flagDeployMode, "deploymode", "Deploy mode: "+strings.Join(resolve.DeployModes, ", "))
	f.StringVar(&flagNodesDir, "nodesdir", "", "Node data directory (default <configdir>/<consensus>/nodes)")
	f.StringVar(&flagProfile, "profile", "", "User profile applied over the standard profiles")

	for _, c := range []*cobra.Command{requireCmd, shellExportCmd, getCmd, setCmd, showCmd} {
		c.Flags().StringVar(&flagDocDir, "configdir", ".", "Directory holding the document")
	}
	setCmd.Flags().BoolVar(&flagRaw, "raw", false, "Treat value as JSON rather than a string")
}
