package cmd

import (
	"fmt"
	"github.com/moontv/moonProxy/service"
	"github.com/moontv/moonProxy/util"
	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "list configured live sources",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(util.ToJSON(service.NewSourceResolver().List(), true))
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
