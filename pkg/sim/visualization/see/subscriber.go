// Package see renders 2D world changes as JSON lines for
// github.com/robotalks/see.
package see

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/golang/glog"

	fx "github.com/robotalks/joydrive/pkg/framework"
	"github.com/robotalks/joydrive/pkg/sim"
)

// Adapter collects object changes during an iteration and writes them
// out at PrLvPostProc.
type Adapter struct {
	Config *Config
	Mapper ObjectMapper
	Output io.Writer

	initial bool
	updated map[string]sim.Object
	removed map[string]bool
}

// NewAdapter creates the adapter.
func NewAdapter(config *Config) *Adapter {
	return &Adapter{
		Config:  config,
		initial: true,
	}
}

// Subscribe is a helper to subscribe object changes.
func (a *Adapter) Subscribe(sub sim.ObjectsChangeSubscriber) *Adapter {
	sub.SubscribeObjectsChange(a)
	return a
}

// ObjectsChanged implements ObjectsChangeListener.
func (a *Adapter) ObjectsChanged(cc fx.ControlContext, objs ...sim.Object) {
	if a.updated == nil {
		a.updated = make(map[string]sim.Object)
	}
	for _, obj := range objs {
		a.updated[obj.Name()] = obj
		delete(a.removed, obj.Name())
	}
}

// ObjectsRemoved implements ObjectsChangeListener.
func (a *Adapter) ObjectsRemoved(cc fx.ControlContext, objs ...sim.Object) {
	if a.removed == nil {
		a.removed = make(map[string]bool)
	}
	for _, obj := range objs {
		a.removed[obj.Name()] = true
		delete(a.updated, obj.Name())
	}
}

// AddToLoop implements LoopAdder.
func (a *Adapter) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvIdle, fx.ControlFunc(a.ReportChanges))
}

func (a *Adapter) corners() []Message {
	w, h := a.Config.W/2, a.Config.H/2
	corner := func(loc string, x, y float64) Message {
		return Message{Action: ActionObject, Object: NewObject("corner", "corner-"+loc).With("loc", loc).At(x, y).Radius(1)}
	}
	return []Message{
		{Action: ActionReset},
		corner("lt", -w, -h),
		corner("lb", -w, h),
		corner("rt", w, -h),
		corner("rb", w, h),
	}
}

// Collect returns the pending messages and resets the pending changes.
func (a *Adapter) Collect() []Message {
	var msgs []Message
	if a.initial {
		msgs = a.corners()
		a.initial = false
		a.removed = nil
	}

	names := make([]string, 0, len(a.updated))
	for name := range a.updated {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		vo, ok := a.updated[name].(VisibleObject)
		if !ok {
			continue
		}
		mapped := []Object{ObjectFrom("bot", vo)}
		if a.Mapper != nil {
			mapped = a.Mapper.MapObject(vo)
		}
		for _, obj := range mapped {
			if obj != nil {
				msgs = append(msgs, Message{Action: ActionObject, Object: obj})
			}
		}
	}

	names = names[:0]
	for name := range a.removed {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		msgs = append(msgs, Message{Action: ActionRemove, RemoveID: ObjectID(name)})
	}

	a.updated, a.removed = nil, nil
	return msgs
}

// ReportChanges writes pending messages to Output as a JSON array.
func (a *Adapter) ReportChanges(cc fx.ControlContext) error {
	msgs := a.Collect()
	if len(msgs) == 0 || a.Output == nil {
		return nil
	}
	encoded, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	if _, err := a.Output.Write(append(encoded, '\n')); err != nil {
		glog.Errorf("see: write: %v", err)
		return err
	}
	return nil
}
