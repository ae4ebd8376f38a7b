package main

import (
	"flag"
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/joydrive/pkg/framework"
	"github.com/robotalks/joydrive/pkg/l1"
	env "github.com/robotalks/joydrive/pkg/l1/env/controller"
	"github.com/robotalks/joydrive/pkg/motor"
)

var listPorts bool

func init() {
	env.SetControllerType("motor", l1.ControllerMeta{Description: "Differential drive motor board"})
	env.SetupFlags()
	motor.SetupFlags()
	flag.BoolVar(&listPorts, "list-ports", listPorts, "List serial ports and exit.")
}

func main() {
	flag.Parse()

	if listPorts {
		ports, err := motor.SerialPorts()
		if err != nil {
			glog.Exit(err)
		}
		for _, port := range ports {
			fmt.Println(port)
		}
		return
	}

	e := env.NewConfig().MustNewEnv()
	ctl := motor.NewConfig().MustNewController(e.Registrar)
	framework.NewLoop().Add(e, ctl).RunOrFail(ctl.Driver)
}
