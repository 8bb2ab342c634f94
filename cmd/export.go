package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cmdvault/cmdvault/pkg/export"
	"github.com/cmdvault/cmdvault/pkg/service"
)

// NewExportCmd creates the `export` subcommand.
func NewExportCmd(svc **service.Service) *cobra.Command {
	var (
		output    string
		format    string
		folderRef string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the command tree to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			var data []byte
			defaultPath := export.FileName(time.Now(), f)
			if folderRef != "" {
				folder, err := resolveFolder(s.Store(), folderRef)
				if err != nil {
					return err
				}
				data, err = export.MarshalFolder(folder, f)
				if err != nil {
					return err
				}
				defaultPath = export.FolderFileName(folder.Name, time.Now(), f)
			} else {
				data, err = export.Marshal(s.Store().Roots(), f)
				if err != nil {
					return err
				}
			}

			path := output
			if path == "" {
				path = defaultPath
			}
			if path == "-" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Printf("Exported %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file ('-' for stdout; default dated file in cwd)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "export format: json or yaml")
	cmd.Flags().StringVar(&folderRef, "folder", "", "export only one folder's contents")
	return cmd
}
