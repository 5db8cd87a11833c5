package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tripstudioapp/tripstudio/internal/version"
)

func main() {
	root := &cobra.Command{
		Use:     "tripstudio",
		Short:   "Admin backend for travel-product content and its media library",
		Version: version.Version,
	}
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
