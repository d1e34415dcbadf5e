package cmd

import (
	"fmt"
	"log"

	"gspotify/config"
	"gspotify/storage"

	"github.com/spf13/cobra"
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "Check the MinIO connection and bucket",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		fmt.Printf("MinIO: %s, bucket %s\n", cfg.MinioEndpoint, cfg.MinioBucket)

		if _, err := storage.NewMinioClient(cfg); err != nil {
			log.Fatalf("Failed to connect to MinIO: %v", err)
		}
		fmt.Println("MinIO connection OK, bucket is ready")
	},
}

func init() {
	rootCmd.AddCommand(minioCmd)
}
