package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Galtar27/PSMoveService/internal/config"
	"github.com/Galtar27/PSMoveService/internal/manager"
	managerImpl "github.com/Galtar27/PSMoveService/internal/manager/hmd"
	"github.com/Galtar27/PSMoveService/pkg/version"
)

type mainApp struct {
	name string
	cmd  *cobra.Command
	args []string
	opt  *config.PSMSOpt
}

func (a *mainApp) ProbeDevices() error {
	m := managerImpl.NewManager(a.opt)
	log.Infoln("Probing HMD devices...")
	res, err := m.ProbeDev()
	if err != nil {
		log.Errorln(err)
		return err
	}
	log.Infof("Found %d HMD devices: \n", len(res))
	for _, v := range res {
		fmt.Printf("- %s\n", strings.TrimSpace(v))
	}
	return nil
}

func (a *mainApp) GetOpt() *config.PSMSOpt {
	return a.opt
}

func (a *mainApp) SetOpt(opt *config.PSMSOpt) { a.opt = opt }

var app MainApp = nil

// newRouter builds the diagnostics API: a read-only operational surface,
// not the tracking client protocol.
func newRouter(m manager.Manager, debug bool) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"running": m.Running(),
			"faulted": m.Faulted(),
		})
	})

	v1 := router.Group("/api/v1")
	v1.GET("/devices", func(c *gin.Context) {
		ids, err := m.ListDev()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"devices": ids})
	})
	v1.GET("/devices/:id/state", func(c *gin.Context) {
		lookback := 0
		if q := c.Query("lookback"); q != "" {
			n, err := strconv.Atoi(q)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lookback"})
				return
			}
			lookback = n
		}
		st, err := m.State(c.Param("id"), lookback)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, st)
	})

	return router
}

func (a *mainApp) Run() {
	var once sync.Once
	once.Do(func() {
		app = a
	})

	log.Infoln("version:", version.GitVersion)
	log.Infoln("api.port:", a.opt.API.Port)
	log.Infoln("api.interface:", a.opt.API.Interface)
	log.Infoln("poll.interval_ms:", a.opt.Poll.IntervalMs)
	log.Infoln("poll.device_config_dir:", a.opt.Poll.DeviceConfigDir)
	log.Infoln("debug:", a.opt.Debug)

	// start manager
	m := managerImpl.NewManager(a.opt)
	go managerImpl.Daemon(m)

	// install and start the diagnostics api server
	router := newRouter(m, a.opt.Debug)
	addr := a.opt.API.Interface + ":" + strconv.Itoa(a.opt.API.Port)
	log.Info("start API listen on ", addr)
	if err := router.Run(addr); err != nil {
		log.Errorln("failed to serve...", err)
		return
	}
}

func (a *mainApp) PrepareRun() MainApp {
	desc := config.NewPSMSDesc()
	err := desc.Parse(a.cmd)
	if err != nil {
		log.Errorln(err)
		os.Exit(1)
		return nil
	}
	desc.PostParse()
	a.opt = &desc.Opt
	a.name = config.DefaultAppName

	if a.opt.Debug {
		log.SetLevel(log.DebugLevel)
	}

	return a
}

type MainApp interface {
	Run()
	PrepareRun() MainApp
	GetOpt() *config.PSMSOpt
	SetOpt(*config.PSMSOpt)
	ProbeDevices() error
}

func NewMainApp(cmd *cobra.Command, args []string) MainApp {
	return &mainApp{
		cmd:  cmd,
		args: args,
	}
}
