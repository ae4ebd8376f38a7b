package connector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/joydrive/pkg/l1"
	"github.com/robotalks/joydrive/pkg/l1/comm/mqtt"
)

func TestNewConnector(t *testing.T) {
	testCases := []struct {
		name string
		url  string
		typ  interface{}
	}{
		{"mqtt", "mqtt://localhost:1883/robo/", &mqtt.Connector{}},
		{"websocket", "ws://localhost:8080/robo", &DirectConnector{}},
		{"stream", "stream://localhost:8081", &DirectConnector{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			conf := NewConfig()
			conf.RegistryURL = tc.url
			connector, err := conf.NewConnector()
			require.NoError(t, err)
			require.IsType(t, tc.typ, connector)
		})
	}

	conf := NewConfig()
	conf.RegistryURL = "http://localhost"
	_, err := conf.NewConnector()
	require.Error(t, err)
}

func TestConnectRequiresRef(t *testing.T) {
	conf := NewConfig()
	conf.Ref = l1.ControllerRef{Type: "motor"}
	_, err := conf.Connect(context.Background())
	require.Error(t, err)
}

func TestDirectDiscover(t *testing.T) {
	c := &DirectConnector{URL: "ws://localhost:8080/robo"}
	infos, err := c.Discover(context.Background())
	require.NoError(t, err)
	require.Empty(t, infos)
	c.Ref = l1.ControllerRef{Type: "motor", ID: "m0"}
	infos, err = c.Discover(context.Background())
	require.NoError(t, err)
	require.Equal(t, []l1.ControllerInfo{{Ref: c.Ref}}, infos)
}

func TestDirectConnectError(t *testing.T) {
	conf := NewConfig()
	conf.RegistryURL = "stream://127.0.0.1:1"
	conf.Ref = l1.ControllerRef{Type: "motor", ID: "m0"}
	_, err := conf.Connect(context.Background())
	require.Error(t, err)
}
