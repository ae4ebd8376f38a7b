// Package drive adds differential drive commands to the shell.
package drive

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/joydrive/pkg/cli/sh"
	"github.com/robotalks/joydrive/pkg/drive"
	"github.com/robotalks/joydrive/pkg/l1/msgs"
)

// ParsePair parses two float arguments.
func ParsePair(args []string) (a, b float64, err error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expect 2 arguments, got %d", len(args))
	}
	if a, err = strconv.ParseFloat(args[0], 64); err != nil {
		return
	}
	b, err = strconv.ParseFloat(args[1], 64)
	return
}

// StickCommand maps stick position to the DiffDrive command. Output is
// clamped as receivers would do.
func StickCommand(x, y float64) *msgs.DiffDrive {
	cmd := drive.FromStick(x, y).Clamped()
	return &msgs.DiffDrive{Left: float32(cmd.Left), Right: float32(cmd.Right)}
}

func runPair(c *ishell.Context, fn func(a, b float64) *msgs.DiffDrive) {
	a, b, err := ParsePair(c.Args)
	if err != nil {
		c.Err(err)
		return
	}
	sh.DoCommand(c, fn(a, b))
}

var (
	// CapsCmd queries DiffDriveCaps.
	CapsCmd = ishell.Cmd{
		Name: "drive.caps",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.DiffDriveCapsQuery{})
		}),
	}

	// DiffCmd sends DiffDrive with raw wheel commands.
	DiffCmd = ishell.Cmd{
		Name:    "drive.diff",
		Aliases: []string{"dd"},
		Help:    "LEFT RIGHT",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			runPair(c, func(left, right float64) *msgs.DiffDrive {
				return &msgs.DiffDrive{Left: float32(left), Right: float32(right)}
			})
		}),
	}

	// StickCmd sends DiffDrive mapped from a stick position.
	StickCmd = ishell.Cmd{
		Name:    "drive.stick",
		Aliases: []string{"ds"},
		Help:    "X Y",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			runPair(c, StickCommand)
		}),
	}

	// StopCmd stops both wheels.
	StopCmd = ishell.Cmd{
		Name: "drive.stop",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.DiffDrive{})
		}),
	}
)

func init() {
	sh.AddCmds(
		&CapsCmd,
		&DiffCmd,
		&StickCmd,
		&StopCmd,
	)
}
