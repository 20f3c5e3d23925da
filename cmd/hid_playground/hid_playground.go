package main

import (
	"fmt"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Galtar27/PSMoveService/internal/config"
	devicehmd "github.com/Galtar27/PSMoveService/internal/device/hmd"
	"github.com/Galtar27/PSMoveService/internal/manager/hmd"
	"github.com/Galtar27/PSMoveService/internal/server"
)

var defaultTableValue = [][]string{{"ID", "Seq", "Accel", "Gyro", "OnHead"}}

func getTable() *widgets.Table {
	table := widgets.NewTable()
	table.Rows = defaultTableValue
	table.ColumnWidths = []int{30, 10, 30, 30, 10}
	table.TextStyle = ui.NewStyle(ui.ColorWhite)
	table.TextAlignment = ui.AlignRight
	table.SetRect(0, 0, 110, 36)
	return table
}

func printArray(arr [3]float32) string {
	str := ""
	for i, num := range arr {
		str += fmt.Sprintf("%.2f", num)
		if i != len(arr)-1 {
			str += ", "
		}
	}
	return str
}

func updateValue(opt *config.PSMSOpt, table *widgets.Table) {
	manager := hmd.NewManager(opt)
	if err := manager.Start(); err != nil {
		log.Panicln(err)
	}

	tableRowMap := make(map[string]int)
	for {
		ids, err := manager.ListDev()
		if err != nil {
			log.Warnln(err)
			continue
		}

		for _, id := range ids {
			if _, ok := tableRowMap[id]; !ok {
				table.Rows = append(table.Rows, []string{id, "", "", "", ""})
				tableRowMap[id] = len(table.Rows) - 1
			}
			st, err := manager.State(id, 0)
			if err != nil {
				continue
			}
			hmdState, ok := st.(*devicehmd.State)
			if !ok {
				continue
			}
			table.Rows[tableRowMap[id]] = []string{
				id,
				fmt.Sprintf("%d", hmdState.Seq),
				printArray(hmdState.Frames[0].CalibratedAccel),
				printArray(hmdState.Frames[0].CalibratedGyro),
				fmt.Sprintf("%v", hmdState.OnHead()),
			}
		}

		ui.Render(table)
		time.Sleep(time.Millisecond * 10)
	}
}

func _main(cmd *cobra.Command, args []string) {
	log.Info("Starting")
	if err := ui.Init(); err != nil {
		log.Fatalf("failed to initialize termui: %v", err)
	}
	defer ui.Close()

	t := getTable()
	opt := server.NewMainApp(cmd, args).PrepareRun().GetOpt()
	go updateValue(opt, t)

	uiEvents := ui.PollEvents()
	for {
		e := <-uiEvents
		switch e.ID {
		case "q", "<C-c>":
			return
		}
	}
}

var rootCmd = &cobra.Command{
	Use:   "hid_playground",
	Short: "hid_playground",
	Long:  "hid_playground",
	Run: func(cmd *cobra.Command, args []string) {
		_main(cmd, args)
	},
}

func main() {
	rootCmd.Flags().String("config", "", "default configuration path")
	rootCmd.Flags().Int64P("port", "p", config.DefaultAPIPort, "port that the diagnostics API listens on")
	rootCmd.Flags().StringP("interface", "i", config.DefaultAPIInterface, "interface that the diagnostics API listens on, default to 0.0.0.0")
	rootCmd.Flags().Bool("debug", false, "toggle debug logging")

	err := rootCmd.Execute()
	if err != nil {
		return
	}
}
