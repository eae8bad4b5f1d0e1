package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/anyfile-project/anyfile/pkg/fileaccess"
)

// callOptions translates the shared flags into dispatcher options.
func callOptions(compression string, noRetry bool) []fileaccess.Option {
	var opts []fileaccess.Option
	if compression != "" {
		opts = append(opts, fileaccess.WithCompression(fileaccess.Compression(compression)))
	}
	if noRetry {
		opts = append(opts, fileaccess.WithoutRetry())
	}
	return opts
}

func newListCommand() *cobra.Command {
	var noRetry bool

	cmd := &cobra.Command{
		Use:   "ls <identifier>",
		Short: "List the resources under a prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(func(ctx context.Context, client *fileaccess.Client) error {
				children, err := client.List(ctx, args[0], callOptions("", noRetry)...)
				if err != nil {
					return err
				}
				for _, child := range children {
					fmt.Println(child)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&noRetry, "no-retry", false, "fail immediately on transient errors")
	return cmd
}

func newCatCommand() *cobra.Command {
	var compression string
	var noRetry bool

	cmd := &cobra.Command{
		Use:   "cat <identifier>",
		Short: "Print a resource's contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(func(ctx context.Context, client *fileaccess.Client) error {
				data, found, err := client.Read(ctx, args[0], callOptions(compression, noRetry)...)
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("not found: %s", args[0])
				}
				_, err = os.Stdout.Write(data)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&compression, "compression", "", "payload codec (none, gzip); inferred from the extension when unset")
	cmd.Flags().BoolVar(&noRetry, "no-retry", false, "fail immediately on transient errors")
	return cmd
}

func newWriteCommand() *cobra.Command {
	var compression string
	var contentType string
	var noRetry bool

	cmd := &cobra.Command{
		Use:   "write <identifier> [file]",
		Short: "Write a file (or stdin) to a resource",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if len(args) == 2 {
				data, err = os.ReadFile(args[1])
			} else {
				data, err = io.ReadAll(os.Stdin)
			}
			if err != nil {
				return err
			}

			return runWithClient(func(ctx context.Context, client *fileaccess.Client) error {
				opts := callOptions(compression, noRetry)
				if contentType != "" {
					opts = append(opts, fileaccess.WithContentType(fileaccess.MimeType(contentType)))
				}
				return client.Write(ctx, args[0], data, opts...)
			})
		},
	}
	cmd.Flags().StringVar(&compression, "compression", "", "payload codec (none, gzip); inferred from the extension when unset")
	cmd.Flags().StringVar(&contentType, "content-type", "", "MIME type recorded with the object")
	cmd.Flags().BoolVar(&noRetry, "no-retry", false, "fail immediately on transient errors")
	return cmd
}

func newExistsCommand() *cobra.Command {
	var noRetry bool

	cmd := &cobra.Command{
		Use:   "exists <identifier>",
		Short: "Check whether a resource exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(func(ctx context.Context, client *fileaccess.Client) error {
				exists, err := client.Exists(ctx, args[0], callOptions("", noRetry)...)
				if err != nil {
					return err
				}
				fmt.Println(exists)
				if !exists {
					os.Exit(1)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&noRetry, "no-retry", false, "fail immediately on transient errors")
	return cmd
}

func newDeleteCommand() *cobra.Command {
	var noRetry bool

	cmd := &cobra.Command{
		Use:   "rm <identifier>",
		Short: "Delete a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(func(ctx context.Context, client *fileaccess.Client) error {
				return client.Delete(ctx, args[0], callOptions("", noRetry)...)
			})
		},
	}
	cmd.Flags().BoolVar(&noRetry, "no-retry", false, "fail immediately on transient errors")
	return cmd
}
