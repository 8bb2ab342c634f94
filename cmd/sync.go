package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cmdvault/cmdvault/pkg/service"
	"github.com/cmdvault/cmdvault/pkg/sync"
)

// NewSyncCmd creates the `sync` subcommand tree.
func NewSyncCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Back up and restore the vault via a private gist",
	}
	cmd.AddCommand(newSyncUploadCmd(svc))
	cmd.AddCommand(newSyncListCmd(svc))
	cmd.AddCommand(newSyncRestoreCmd(svc))
	cmd.AddCommand(newSyncTokenCmd(svc))
	return cmd
}

func newSyncUploadCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "upload",
		Short: "Upload a versioned backup",
		Long: `Upload the tree as both the latest pointer and a fresh timestamped
version, then prune versions past the configured limit. The first upload
creates the backup gist and caches its id for auto-sync.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			syncer, err := s.Syncer()
			if err != nil {
				return err
			}
			content, err := sync.MarshalForest(s.Store().Roots())
			if err != nil {
				return err
			}
			ctx := context.Background()
			id, err := syncer.Upload(ctx, s.State().RemoteContainerID, content)
			if err != nil {
				return fmt.Errorf("upload: %w", err)
			}
			if id != s.State().RemoteContainerID {
				s.State().RemoteContainerID = id
				if err := s.Save(); err != nil {
					return err
				}
			}
			fmt.Printf("Backed up to gist %s\n", id)
			return nil
		},
	}
}

func newSyncListCmd(svc **service.Service) *cobra.Command {
	var listJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List restorable backups, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			syncer, err := s.Syncer()
			if err != nil {
				return err
			}
			ctx := context.Background()
			id, files, err := syncer.Versions(ctx, s.State().RemoteContainerID)
			if err != nil {
				return fmt.Errorf("list backups: %w", err)
			}
			if id != s.State().RemoteContainerID {
				s.State().RemoteContainerID = id
				if err := s.Save(); err != nil {
					return err
				}
			}
			if listJSON {
				return printJSON(files)
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FILE\tSIZE")
			for _, f := range files {
				name := f.Name
				if name == sync.LatestFile {
					name += " (latest)"
				}
				fmt.Fprintf(w, "%s\t%d\n", name, f.Size)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	return cmd
}

func newSyncRestoreCmd(svc **service.Service) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "restore [file]",
		Short: "Replace the local tree with a remote backup",
		Long: `Restore a backup file. Without an argument the latest pointer is used;
pass a version filename from 'sync list' to roll back further.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			syncer, err := s.Syncer()
			if err != nil {
				return err
			}
			ctx := context.Background()

			id, _, err := syncer.Versions(ctx, s.State().RemoteContainerID)
			if err != nil {
				return fmt.Errorf("locate backups: %w", err)
			}
			name := sync.LatestFile
			if len(args) == 1 {
				name = args[0]
			}

			if !force && !confirm("Replace the local tree with "+name+"?") {
				fmt.Println("Aborted.")
				return nil
			}

			forest, err := syncer.Restore(ctx, id, name)
			if err != nil {
				return fmt.Errorf("restore: %w", err)
			}
			s.Snapshot("Restore: " + name)
			s.Store().SetRoots(forest)
			s.State().RemoteContainerID = id
			if err := s.Save(); err != nil {
				return err
			}
			fmt.Printf("Restored %s\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	return cmd
}

func newSyncTokenCmd(svc **service.Service) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "token [token]",
		Short: "Save or clear the GitHub token used for backups",
		Long: `Store a GitHub personal access token with the gist scope in the vault.
The CMDVAULT_GH_TOKEN environment variable or the gh_token config key
override the stored one without replacing it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			switch {
			case clear:
				s.State().GHToken = ""
				s.State().RemoteContainerID = ""
				if err := s.Save(); err != nil {
					return err
				}
				fmt.Println("Token and cached gist id cleared.")
			case len(args) == 1:
				s.State().GHToken = args[0]
				if err := s.Save(); err != nil {
					return err
				}
				fmt.Println("Token saved.")
			default:
				if s.Token() == "" {
					fmt.Println("No token configured.")
				} else {
					fmt.Println("A token is configured.")
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "forget the stored token and gist id")
	return cmd
}
