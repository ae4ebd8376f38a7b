// Package env provides defaults shared by L1 controllers and L2 connectors.
package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// AppID scopes the protected machine ID so it isn't the raw host ID.
const AppID = "joydrive"

// MachineID returns an ID stable across restarts of this machine. It
// falls back to the hostname when the machine ID is unavailable.
func MachineID() string {
	id, err := machineid.ProtectedID(AppID)
	if err == nil {
		return id[:16]
	}
	glog.Warningf("machine id unavailable: %v", err)
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return "unknown"
}
