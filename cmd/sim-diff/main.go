package main

import (
	"flag"

	fx "github.com/robotalks/joydrive/pkg/framework"
	"github.com/robotalks/joydrive/pkg/l1"
	env "github.com/robotalks/joydrive/pkg/l1/env/controller"
	diffbot "github.com/robotalks/joydrive/pkg/sim/bots/diff"
	"github.com/robotalks/joydrive/pkg/sim/visualization/see"
)

const (
	imageSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="-100 -100 200 200">
		<g>
			<rect x="-60" y="-100" width="120" height="30" rx="5" />
			<rect x="-60" y="70" width="120" height="30" rx="5" />
			<rect x="-80" y="-70" width="160" height="140" fill="none" stroke="black" stroke-width="4" />
			<path d="M 10 -40 L 70 0 L 10 40 Z" />
		</g>
	</svg>`
)

func init() {
	env.SetControllerType("sim-diff", l1.ControllerMeta{Description: "Simulation: differential drive"})
	env.SetupFlags()
	see.SetupFlags()
	diffbot.SetupFlags()
}

func main() {
	flag.Parse()

	e := env.NewConfig().MustNewEnv()
	bot := diffbot.NewConfig().NewController(e)
	vis := see.NewConfig().NewAdapter()
	vis.Mapper = see.MapObjectFunc(func(obj see.VisibleObject) []see.Object {
		return []see.Object{
			see.ObjectFrom("image", obj).With("src", "data:image/svg+xml;utf8,"+imageSVG),
		}
	})
	vis.Subscribe(bot)

	fx.NewLoop().
		Add(e, bot, vis).
		RunOrFail()
}
