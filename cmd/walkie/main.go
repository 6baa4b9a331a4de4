// Command walkie runs the voice-relay server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "walkie",
	Short: "Low-latency mix-minus voice relay",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0, "listen port (overrides PORT env var)")
	serveCmd.Flags().String("admin-token", "", "admin bearer token (overrides ADMIN_TOKEN env var)")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("admin_token", serveCmd.Flags().Lookup("admin-token"))
}
