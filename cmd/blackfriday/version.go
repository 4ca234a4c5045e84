package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackfriday/blackfriday"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the blackfriday version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(blackfriday.VERSION)
	},
}
