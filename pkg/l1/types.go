package l1

import (
	"context"

	fx "github.com/robotalks/joydrive/pkg/framework"
)

// Registrar registers a robot (L1 controller) so L2 components can reach it.
// Received commands are posted into the loop as CommandMsg.
type Registrar interface {
	// SendEvent publishes an event to connected L2 components.
	SendEvent(context.Context, fx.Message) error
}

// Command is a received command waiting for its reply.
type Command interface {
	Msg() fx.Message
	// Done sends the reply. It must be called exactly once.
	Done(fx.Message) error
}

// CommandMsg carries a Command through the loop.
type CommandMsg struct {
	Command Command
}

// NewMessage implements Message.
func (m *CommandMsg) NewMessage() fx.Message { return &CommandMsg{} }

// ControllerRef identifies an L1 controller.
type ControllerRef struct {
	// Type is the robot type, e.g. "motor" or "sim-diff".
	Type string
	// ID is unique per device of the same type.
	ID string
}

// Name returns "type/id".
func (r ControllerRef) Name() string {
	return r.Type + "/" + r.ID
}

// IsValid returns true when both Type and ID are set.
func (r ControllerRef) IsValid() bool {
	return r.Type != "" && r.ID != ""
}

// ControllerMeta is published along with the registration.
type ControllerMeta struct {
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// ControllerInfo is what Discover returns per controller.
type ControllerInfo struct {
	Ref  ControllerRef
	Meta ControllerMeta
}

// Connector is used by L2 components to find and reach L1 controllers.
type Connector interface {
	Discover(context.Context) ([]ControllerInfo, error)
	Connect(context.Context, ControllerRef) (ControllerConn, error)
}

// ControllerConn sends commands to a connected controller.
type ControllerConn interface {
	DoCommand(fx.Message) CommandFuture
}

// Result is the outcome of a command. Err is set for transport
// failures, expiration and CommandErr replies.
type Result struct {
	Msg fx.Message
	Err error
}

// CommandFuture delivers exactly one Result.
type CommandFuture interface {
	ResultChan() <-chan Result
}

// Wait blocks until the result arrives or ctx is done.
func Wait(ctx context.Context, f CommandFuture) (fx.Message, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-f.ResultChan():
		return r.Msg, r.Err
	}
}
