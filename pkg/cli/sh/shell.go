// Package sh is the interactive shell of robocli. Command packages add
// their commands with AddCmds from init.
package sh

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	fx "github.com/robotalks/joydrive/pkg/framework"
	"github.com/robotalks/joydrive/pkg/l1"
	env "github.com/robotalks/joydrive/pkg/l1/env/connector"
	"github.com/robotalks/joydrive/pkg/l1/msgs"
)

// Shell is an ishell backed shell holding at most one connection.
type Shell struct {
	Interactive    bool
	OutputJSON     bool
	AutoConnect    bool
	CommandTimeout time.Duration

	Shell  *ishell.Shell
	Config *env.Config
	Conn   *ConnLoop
}

// ConnLoop is a connection with the loop serving it.
type ConnLoop struct {
	Ref    l1.ControllerRef
	Conn   l1.ControllerConn
	Loop   *fx.Loop
	cancel func()
}

// Close stops the loop and closes the connection.
func (c *ConnLoop) Close() {
	c.cancel()
	if closer, ok := c.Conn.(io.Closer); ok {
		closer.Close()
	}
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

// ErrNotConnected is reported by commands requiring a connection.
var ErrNotConnected = errors.New("not connected")

var (
	evalOnly   bool
	outputJSON bool
	timeout    = time.Second

	commands = []*ishell.Cmd{
		&DiscoverCmd,
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluate the command from arguments, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.DurationVar(&timeout, "timeout", timeout, "Command timeout.")
}

// AddCmds registers commands. It's called from init of command packages.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a shell with all registered commands.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive:    !evalOnly,
		OutputJSON:     outputJSON,
		CommandTimeout: timeout,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Conn == nil {
			c.Err(ErrNotConnected)
			return
		}
		fn(c)
	}
}

// FormatInfo formats ControllerInfo for display.
func FormatInfo(info l1.ControllerInfo) string {
	if info.Meta.Description == "" {
		return info.Ref.Name()
	}
	return info.Ref.Name() + ": " + info.Meta.Description
}

// Do sends a command on the current connection and waits for the reply.
func (s *Shell) Do(msg fx.Message) (fx.Message, error) {
	if s.Conn == nil {
		return nil, ErrNotConnected
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.CommandTimeout)
	defer cancel()
	return l1.Wait(ctx, s.Conn.Conn.DoCommand(msg))
}

// FormatReply renders a reply as "OK", JSON or "Type {fields}".
func (s *Shell) FormatReply(reply fx.Message) (string, error) {
	serializable, ok := reply.(msgs.SerializableMessage)
	if !ok {
		return fmt.Sprintf("%#v", reply), nil
	}
	if s.OutputJSON {
		out, err := json.Marshal(serializable.Serializable())
		return string(out), err
	}
	if _, ok := reply.(*msgs.CommandOK); ok {
		return "OK", nil
	}
	return fmt.Sprintf("%s %s",
		reflect.Indirect(reflect.ValueOf(reply)).Type().Name(),
		serializable.Serializable().String()), nil
}

// DoCommand runs a command and prints the reply or the error.
func DoCommand(c *ishell.Context, msg fx.Message) error {
	s := ShellFrom(c)
	reply, err := s.Do(msg)
	if err == nil {
		var out string
		if out, err = s.FormatReply(reply); err == nil {
			c.Println(out)
			return nil
		}
	}
	c.Err(err)
	return err
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// DiscoverControllers discovers controllers accepted by filter (nil for all).
func (s *Shell) DiscoverControllers(filter func(l1.ControllerInfo) bool) ([]l1.ControllerInfo, error) {
	connector, err := s.Config.NewConnector()
	if err != nil {
		return nil, err
	}
	infos, err := connector.Discover(context.Background())
	if err != nil || filter == nil {
		return infos, err
	}
	selected := infos[:0]
	for _, info := range infos {
		if filter(info) {
			selected = append(selected, info)
		}
	}
	return selected, nil
}

// SelectController discovers controllers and asks for a choice when
// there are more than one. It returns nil when nothing is discovered.
func (s *Shell) SelectController(filter func(l1.ControllerInfo) bool) (*l1.ControllerInfo, error) {
	infos, err := s.DiscoverControllers(filter)
	if err != nil || len(infos) == 0 {
		return nil, err
	}
	if len(infos) == 1 {
		return &infos[0], nil
	}
	if !s.Interactive {
		return nil, fmt.Errorf("%d controllers discovered in non-interactive mode", len(infos))
	}
	items := make([]string, len(infos))
	for n, info := range infos {
		items[n] = FormatInfo(info)
	}
	index := s.Shell.MultiChoice(items, "Which one to connect?")
	if index < 0 {
		return nil, nil
	}
	return &infos[index], nil
}

// TypeFilter accepts controllers of the type.
func TypeFilter(typ string) func(l1.ControllerInfo) bool {
	return func(info l1.ControllerInfo) bool {
		return info.Ref.Type == typ
	}
}

// ResolveRef parses "TYPE ID" arguments, or discovers a controller
// (of TYPE when given).
func (s *Shell) ResolveRef(args []string) (l1.ControllerRef, error) {
	if len(args) >= 2 {
		return l1.ControllerRef{Type: args[0], ID: args[1]}, nil
	}
	var filter func(l1.ControllerInfo) bool
	if len(args) == 1 {
		filter = TypeFilter(args[0])
	}
	info, err := s.SelectController(filter)
	if err != nil {
		return l1.ControllerRef{}, err
	}
	if info == nil {
		return l1.ControllerRef{}, fmt.Errorf("no controller discovered")
	}
	return info.Ref, nil
}

// Connect replaces the current connection with one to ref.
func (s *Shell) Connect(ref l1.ControllerRef) error {
	connector, err := s.Config.NewConnector()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	conn, err := connector.Connect(ctx, ref)
	if err != nil {
		cancel()
		return err
	}
	connLoop := &ConnLoop{Ref: ref, Conn: conn, Loop: fx.NewLoop(), cancel: cancel}
	if adder, ok := conn.(fx.LoopAdder); ok {
		connLoop.Loop.Add(adder)
	}
	s.Disconnect()
	s.Conn = connLoop
	go connLoop.Loop.Run(ctx)
	s.Shell.SetPrompt(ref.Name() + " > ")
	return nil
}

// Disconnect closes the current connection.
func (s *Shell) Disconnect() {
	if s.Conn != nil {
		s.Conn.Close()
		s.Conn = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Run connects when configured, then evaluates args or runs interactively.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && s.Config.Ref.IsValid() {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.Ref.Name())
		}
		if err := s.Connect(s.Config.Ref); err != nil {
			glog.Exitf("connect %q failed: %v", s.Config.Ref.Name(), err)
		}
	}
	defer s.Disconnect()

	switch {
	case len(args) > 0:
		if err := s.Shell.Process(args...); err != nil {
			glog.Exit(err)
		}
	case s.Interactive:
		s.Shell.Run()
	default:
		glog.Exit("command expected")
	}
}

var (
	// DiscoverCmd lists registered controllers.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "[TYPE]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var filter func(l1.ControllerInfo) bool
			if len(c.Args) > 0 {
				filter = TypeFilter(c.Args[0])
			}
			infos, err := s.DiscoverControllers(filter)
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if infos == nil {
					infos = []l1.ControllerInfo{}
				}
				out, err := json.Marshal(infos)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			if len(infos) == 0 {
				c.Println("No controllers found")
				return
			}
			for _, info := range infos {
				c.Println(FormatInfo(info))
			}
		},
	}

	// ConnectCmd connects a controller.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[TYPE [ID]]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			ref, err := s.ResolveRef(c.Args)
			if err == nil {
				err = s.Connect(ref)
			}
			if err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects current controller.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)
