package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Galtar27/PSMoveService/internal/config"
	"github.com/Galtar27/PSMoveService/internal/server"
)

var RootCmd = &cobra.Command{
	Use:   "psmoveservice",
	Short: "peripheral service managing PSVR headsets and motion controllers",
	Long:  "peripheral service managing PSVR headsets and motion controllers",
}

func ServeCmdRunE(cmd *cobra.Command, args []string) error {
	server.NewMainApp(cmd, args).PrepareRun().Run()
	return nil
}

func ServeCmdFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "default configuration path")
	cmd.Flags().Int64P("port", "p", config.DefaultAPIPort, "port that the diagnostics API listens on")
	cmd.Flags().StringP("interface", "i", config.DefaultAPIInterface, "interface that the diagnostics API listens on, default to 0.0.0.0")
	cmd.Flags().Bool("debug", false, "toggle debug logging")
}

var ServeCmd = &cobra.Command{
	Use: "serve",
	SuggestFor: []string{
		"ru", "ser",
	},
	Short: "serve start the device service using predefined configs.",
	Long: `serve start the device service using predefined configs, by the following order:
1. path specified in --config flag
2. path defined PSMS_CONFIG environment variable
3. default location $HOME/.config/psmoveservice/config.yaml, /etc/psmoveservice/config.yaml, current directory
The parameters in the configuration file will be overwritten by the following order:
1. command line arguments
2. environment variables
`,
	Example: `  psmoveservice serve --config=/path/to/config`,
	RunE:    ServeCmdRunE,
}

func InitCmdFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("print", false, "print config to stdout")
	cmd.Flags().BoolP("yes", "y", false, "overwrite")
	cmd.Flags().StringP("output", "o", config.DefaultConfig, "specify output directory")
}

var InitCmd = &cobra.Command{
	Use: "init",
	SuggestFor: []string{
		"ini", "in",
	},
	Short: "init create a configuration template",
	Long: `init create a configuration template.
The configuration file can be used to launch the device service.
If --print flag is present, the configuration will be printed to stdout.
If --output / -o flag is present, the configuration will be saved to the path specified
Otherwise init will output configuration file to $HOME/.config/psmoveservice/config.yaml
If --yes / -y flag is present, the configuration will be overwrite without confirmation
`,
	Example: `  psmoveservice init --print
  psmoveservice init --output /path/to/config.yaml
  psmoveservice init -o /path/to/config.yaml -y`,
	RunE: config.InitCfg,
}

func ProbeCmdRunE(cmd *cobra.Command, args []string) error {
	return server.NewMainApp(cmd, args).PrepareRun().ProbeDevices()
}

func ProbeCmdFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "default configuration path")
	cmd.Flags().Bool("debug", false, "toggle debug logging")
}

var ProbeCmd = &cobra.Command{
	Use: "probe",
	SuggestFor: []string{
		"pro", "pr", "prob",
	},
	Short: "probe the compatible devices",
	Long: `probe the compatible devices.
The probe command will scan the HID bus for compatible headsets and print the result to stdout.
`,
	Example: `  psmoveservice probe`,
	RunE:    ProbeCmdRunE,
}
