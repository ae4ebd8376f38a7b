package stream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/joydrive/pkg/framework"
	"github.com/robotalks/joydrive/pkg/l1"
	"github.com/robotalks/joydrive/pkg/l1/comm"
	"github.com/robotalks/joydrive/pkg/l1/msgs"
)

func TestRegistrarOverTCP(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := NewRegistrar("127.0.0.1:0")
	robot := fx.NewLoop()
	robot.Add(reg, &comm.UnsupportedCommands{})
	robot.AddController(fx.PrLvControl, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
			if cmdMsg, ok := mctx.CurrentMessage().(*l1.CommandMsg); ok {
				if _, ok := cmdMsg.Command.Msg().(*msgs.DiffDriveCapsQuery); ok {
					mctx.MessageTaken()
					cmdMsg.Command.Done(&msgs.DiffDriveCaps{MaxWheelSpeed: 300})
				}
			}
		}))
		return nil
	}))
	go robot.Run(ctx)

	var addr string
	select {
	case a := <-reg.Listening():
		addr = a.String()
	case <-time.After(2 * time.Second):
		require.FailNow(t, "not listening")
	}

	rw, err := Dial(addr)
	require.NoError(t, err)
	var conn comm.ControllerConn
	conn.Init(rw)
	defer conn.Close()
	go fx.NewLoop().Add(&conn).Run(ctx)

	testCases := []struct {
		name  string
		cmd   fx.Message
		reply fx.Message
	}{
		{"caps", &msgs.DiffDriveCapsQuery{}, &msgs.DiffDriveCaps{MaxWheelSpeed: 300}},
		{"unsupported", &msgs.DiffDrive{}, msgs.NewCommandErr(msgs.ErrUnsupportedCommand)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			reply, _ := l1.Wait(ctx, conn.DoCommand(tc.cmd))
			require.Equal(t, tc.reply, reply)
		})
	}
	require.Equal(t, 1, reg.Len())
}
