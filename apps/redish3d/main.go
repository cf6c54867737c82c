package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/absolute8511/glog"
	"github.com/judwhite/go-svc/svc"

	"github.com/clarkcb/redis-h3/common"
	"github.com/clarkcb/redis-h3/node"
	"github.com/clarkcb/redis-h3/server"
	"github.com/clarkcb/redis-h3/zsetstore"
)

var (
	flagSet        = flag.NewFlagSet("redish3d", flag.ExitOnError)
	configFilePath = flagSet.String("config", "", "the config file path to read")
	showVersion    = flagSet.Bool("version", false, "print version string and exit")
)

type program struct {
	server *server.Server
}

func main() {
	defer log.Printf("main exit")
	defer glog.Flush()
	prg := &program{}
	if err := svc.Run(prg, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGINT); err != nil {
		log.Panic(err)
	}
}

func (p *program) Init(env svc.Environment) error {
	if env.IsWindowsService() {
		dir := filepath.Dir(os.Args[0])
		return os.Chdir(dir)
	}
	return nil
}

func (p *program) Start() error {
	glog.InitWithFlag(flagSet)
	flagSet.Parse(os.Args[1:])

	fmt.Println(common.VerString("redis-h3"))
	if *showVersion {
		os.Exit(0)
	}
	var configFile server.ConfigFile
	if *configFilePath != "" {
		d, err := ioutil.ReadFile(*configFilePath)
		if err != nil {
			panic(err)
		}
		err = json.Unmarshal(d, &configFile)
		if err != nil {
			panic(err)
		}
	}
	serverConf := configFile.ServerConf
	if serverConf.DataDir == "" {
		tmpDir, err := ioutil.TempDir("", fmt.Sprintf("redish3d-%d", time.Now().UnixNano()))
		if err != nil {
			panic(err)
		}
		serverConf.DataDir = tmpDir
	}
	if serverConf.RedisAPIPort == 0 {
		serverConf.RedisAPIPort = 6380
	}
	if serverConf.HttpAPIPort == 0 {
		serverConf.HttpAPIPort = 6381
	}
	if serverConf.LogLevel <= 0 {
		serverConf.LogLevel = common.LOG_INFO
	}

	common.InitDefaultForGLogger(serverConf.LogDir)
	logger := &common.GLogger{}
	server.SetLogger(serverConf.LogLevel, logger)
	node.SetLogger(serverConf.LogLevel, logger)
	zsetstore.SetLogger(serverConf.LogLevel, logger)

	loadConf, _ := json.MarshalIndent(serverConf, "", " ")
	fmt.Printf("loading with conf:%v\n", string(loadConf))

	app, err := server.NewServer(serverConf)
	if err != nil {
		panic(err)
	}
	app.Start()
	p.server = app
	return nil
}

func (p *program) Stop() error {
	if p.server != nil {
		p.server.Stop()
	}
	return nil
}
