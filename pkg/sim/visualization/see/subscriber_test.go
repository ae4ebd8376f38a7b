package see

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/joydrive/pkg/framework"
	"github.com/robotalks/joydrive/pkg/sim"
)

type box struct {
	name string
	pose sim.Pose2D
}

func (b *box) Name() string           { return b.name }
func (b *box) OutlineRect() sim.Rect  { return sim.CenteredRect(100, 60) }
func (b *box) Position2D() sim.Pose2D { return b.pose }

type source struct {
	sim.ObjectsChangeCaster
}

func TestAdapterReport(t *testing.T) {
	var out bytes.Buffer
	a := NewAdapter(&Config{W: 200, H: 100})
	a.Output = &out
	src := &source{}
	a.Subscribe(src)

	loop := fx.NewLoop()
	b := &box{name: "sim-diff/a", pose: sim.Pose2D{Pos2D: sim.Pos2D{X: 10, Y: 20}, Orientation: sim.AngleFromDegrees(90)}}
	loop.AddController(fx.PrLvNormal, fx.ControlFunc(func(cc fx.ControlContext) error {
		src.ObjectsChanged(cc, b)
		return nil
	}))
	a.AddToLoop(loop)
	loop.RunIteration(context.Background())

	var msgs []Message
	require.NoError(t, json.Unmarshal(out.Bytes(), &msgs))
	require.Len(t, msgs, 6)
	assert.Equal(t, ActionReset, msgs[0].Action)
	assert.Equal(t, "corner-rb", msgs[4].Object[PropID])
	obj := msgs[5].Object
	assert.Equal(t, "sim-diff.a", obj[PropID])
	assert.Equal(t, "bot", obj[PropType])
	assert.Equal(t, 50.0, obj[PropRadius])
	assert.InDelta(t, 90, obj[PropRotate], 1e-9)
	assert.Equal(t, map[string]interface{}{"x": 10.0, "y": 20.0}, obj[PropOrigin])
}

func TestAdapterCollect(t *testing.T) {
	a := NewAdapter(&Config{W: 10, H: 10})
	a.Mapper = MapObjectFunc(func(vo VisibleObject) []Object {
		return []Object{NewObject("image", ObjectID(vo.Name())), nil}
	})
	require.Len(t, a.Collect(), 5)
	assert.Empty(t, a.Collect())

	b1, b2 := &box{name: "t/b"}, &box{name: "t/a"}
	a.ObjectsChanged(nil, b1, b2)
	msgs := a.Collect()
	require.Len(t, msgs, 2)
	assert.Equal(t, "t.a", msgs[0].Object[PropID])
	assert.Equal(t, "t.b", msgs[1].Object[PropID])

	a.ObjectsChanged(nil, b1)
	a.ObjectsRemoved(nil, b1)
	assert.Equal(t, []Message{{Action: ActionRemove, RemoveID: "t.b"}}, a.Collect())
}
