package main

import (
	"os"

	"github.com/Galtar27/PSMoveService/internal/cmd"
)

func main() {
	cmd.ServeCmdFlags(cmd.ServeCmd)
	cmd.InitCmdFlags(cmd.InitCmd)
	cmd.ProbeCmdFlags(cmd.ProbeCmd)
	cmd.RootCmd.AddCommand(cmd.ServeCmd, cmd.InitCmd, cmd.ProbeCmd)

	if err := cmd.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
