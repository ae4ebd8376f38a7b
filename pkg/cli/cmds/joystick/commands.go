// Package joystick adds the joystick controller commands to the shell.
package joystick

import (
	"github.com/abiosoft/ishell"

	"github.com/robotalks/joydrive/pkg/cli/sh"
	"github.com/robotalks/joydrive/pkg/joystick/msgs"
)

var (
	// JoystickStatusCmd queries device, connection and controls.
	JoystickStatusCmd = ishell.Cmd{
		Name:    "js.status",
		Aliases: []string{"jss"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.JoystickStatusQuery{})
		}),
	}

	// JoystickConnectCmd tells the joystick which robot to drive.
	JoystickConnectCmd = ishell.Cmd{
		Name:    "js.connect",
		Aliases: []string{"jsc"},
		Help:    "[TYPE [ID [REGISTRY_URL]]]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			ref, err := sh.ShellFrom(c).ResolveRef(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			msg := &msgs.JoystickConnect{Type: ref.Type, ID: ref.ID}
			if len(c.Args) > 2 {
				msg.RegistryURL = c.Args[2]
			}
			sh.DoCommand(c, msg)
		}),
	}

	// JoystickDisconnectCmd stops driving the robot.
	JoystickDisconnectCmd = ishell.Cmd{
		Name:    "js.disconnect",
		Aliases: []string{"jsd"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.JoystickConnect{})
		}),
	}
)

func init() {
	sh.AddCmds(
		&JoystickStatusCmd,
		&JoystickConnectCmd,
		&JoystickDisconnectCmd,
	)
}
