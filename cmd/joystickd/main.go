package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/robotalks/joydrive/pkg/framework"
	"github.com/robotalks/joydrive/pkg/joystick"
	"github.com/robotalks/joydrive/pkg/l1"
	env "github.com/robotalks/joydrive/pkg/l1/env/controller"
)

func init() {
	env.SetControllerType("joystick", l1.ControllerMeta{Description: "Gamepad differential drive controller"})
	env.SetupFlags()
	joystick.SetupFlags()
}

func main() {
	flag.Parse()

	e := env.NewConfig().MustNewEnv()
	ctl := joystick.NewConfig().MustNewController(e)
	framework.NewLoop().Add(e, ctl).RunOrFail()
}
