package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/five82/skyhigh/internal/app"
	"github.com/five82/skyhigh/internal/flow"
)

func newUploadCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload one file and exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Setup(flags.appOptions())
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			file, closeFile, err := flow.OpenFile(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = closeFile() }()

			result := flow.NewUpload(env.Client, env.Logger).Submit(cmd.Context(), file, env.Endpoint)
			if !result.OK {
				return errors.New(result.ErrorMessage)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded: %s\n", result.Filename)
			return nil
		},
	}
}

func newMessageCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "message <text>...",
		Short: "Send a message and print the server status",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Setup(flags.appOptions())
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			text := strings.Join(args, " ")
			status, err := flow.NewMessage(env.Client, env.Logger).SubmitMessage(cmd.Context(), text, env.Endpoint)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Status: %s\n", status)
			return nil
		},
	}
}

func newFilesCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List uploaded files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Setup(flags.appOptions())
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			files, err := env.Client.ListFiles(cmd.Context(), env.Endpoint)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintln(out, "No files uploaded yet")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tBYTES")
			for _, f := range files {
				fmt.Fprintf(tw, "%s\t%d\n", f.Filename, f.Length)
			}
			return tw.Flush()
		},
	}
}

func newResolveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Print the API base the client would use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Setup(flags.appOptions())
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "api_base: %s\n", env.Endpoint.String())
			fmt.Fprintf(out, "origin:   %s\n", env.Config.Origin)
			if env.Config.APIURL != "" && env.Endpoint.Relative() {
				fmt.Fprintf(out, "note:     configured api_url %s ignored for this origin\n", env.Config.APIURL)
			}
			return nil
		},
	}
}
