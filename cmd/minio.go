package cmd

import (
	"fmt"

	"LabelCMS/storage"

	"github.com/spf13/cobra"
)

var minioPrefix string

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "List uploaded objects in the MinIO bucket",
	Long:  `Connect to the configured MinIO bucket and list uploaded objects, optionally under a prefix such as images/ or audios/.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("MinIO: %s, bucket: %s\n", cfg.MinioEndpoint, cfg.MinioBucket)

		store, err := storage.NewMinioStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		objects, stats, err := store.List(cmd.Context(), minioPrefix)
		if err != nil {
			return err
		}

		for _, obj := range objects {
			fmt.Printf("  %-60s %10s  %s  %s\n",
				obj.Key,
				storage.FormatSize(obj.Size),
				obj.LastModified.Format("2006-01-02 15:04:05"),
				obj.ContentType,
			)
		}
		fmt.Printf("\n%d objects, %s", stats.TotalObjects, storage.FormatSize(stats.TotalSize))
		if stats.TotalObjects > 0 {
			fmt.Printf(", last modified %s", stats.LastModified.Format("2006-01-02 15:04:05"))
		}
		fmt.Println()
		return nil
	},
}

func init() {
	minioCmd.Flags().StringVarP(&minioPrefix, "prefix", "p", "", "only list keys with this prefix")
	rootCmd.AddCommand(minioCmd)
}
