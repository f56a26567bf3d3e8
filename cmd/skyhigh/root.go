package main

import (
	"github.com/spf13/cobra"

	"github.com/five82/skyhigh/internal/app"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	envFile    string
	prefsPath  string
	poll       int
	debug      bool
}

func (g *globalFlags) appOptions() app.Options {
	return app.Options{
		ConfigPath: g.configPath,
		EnvFile:    g.envFile,
		PrefsPath:  g.prefsPath,
		PollEvery:  g.poll,
		Debug:      g.debug,
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "skyhigh",
		Short: "Upload files and send messages to the skyhigh demo backend",
		Long: `skyhigh is a terminal client for the skyhigh demo backend. Without a
subcommand it opens the TUI with an upload form, a message form and the list
of uploaded files. The API base comes from api_url in the config file or
SKYHIGH_API_URL, and falls back to paths relative to the origin when the
configured URL would point the client at its own loopback interface.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), flags.appOptions())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/skyhigh/config.toml)")
	pf.StringVar(&flags.envFile, "env-file", "", "dotenv file with SKYHIGH_* overrides (default ./.env)")
	pf.BoolVar(&flags.debug, "debug", false, "enable debug logging")
	root.Flags().StringVar(&flags.prefsPath, "prefs", "", "preferences file (default ~/.config/skyhigh/prefs.toml)")
	root.Flags().IntVar(&flags.poll, "poll", 0, "backend poll interval in seconds (default 2)")

	root.AddCommand(
		newUploadCmd(flags),
		newMessageCmd(flags),
		newFilesCmd(flags),
		newResolveCmd(flags),
		newServeCmd(flags),
	)
	return root
}
