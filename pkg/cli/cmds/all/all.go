// Package all imports every command package of the shell.
package all

import (
	_ "github.com/robotalks/joydrive/pkg/cli/cmds/drive"
	_ "github.com/robotalks/joydrive/pkg/cli/cmds/joystick"
)
