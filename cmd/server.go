package cmd

import (
	"VocaRank/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动VocaRank服务器",
	Long:  `启动VocaRank排行榜系统的HTTP服务器，提供排行、搜索与采集API`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
