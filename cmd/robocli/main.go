package main

import (
	"flag"

	"github.com/robotalks/joydrive/pkg/cli/sh"
	env "github.com/robotalks/joydrive/pkg/l1/env/connector"

	_ "github.com/robotalks/joydrive/pkg/cli/cmds/all"
)

//go-build: CGO_ENABLED=0

var noConnect bool

func init() {
	env.SetupFlags()
	flag.BoolVar(&noConnect, "no-connect", noConnect, "Start without connecting to the controller from the environment.")
}

func main() {
	flag.Parse()
	sh.New(env.NewConfig()).
		WithAutoConnect(!noConnect).
		Run(flag.Args()...)
}
