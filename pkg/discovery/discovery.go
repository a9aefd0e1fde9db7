// Package discovery advertises the intake service on the local network so
// tablet kiosks can find it without configuration.
package discovery

import (
	"fmt"
	"os"

	"github.com/hashicorp/mdns"

	"github.com/dmehra2102/prod-golang-projects/odyssey/config"
)

type Advertiser struct {
	server *mdns.Server
}

// Advertise publishes an mDNS record for the service listening on port.
// The TXT record carries the API version so kiosks can skip servers they
// cannot talk to.
func Advertise(cfg config.DiscoveryConfig, port int, version string) (*Advertiser, error) {
	instance := cfg.Instance
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("could not get hostname: %w", err)
		}
		instance = host
	}

	svc, err := mdns.NewMDNSService(instance, cfg.Service, "", "", port, nil, TXT(version))
	if err != nil {
		return nil, fmt.Errorf("creating mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: svc})
	if err != nil {
		return nil, fmt.Errorf("starting mDNS server: %w", err)
	}

	return &Advertiser{server: server}, nil
}

// TXT builds the TXT record entries for version.
func TXT(version string) []string {
	return []string{"api=v1", "version=" + version}
}

func (a *Advertiser) Shutdown() error {
	if a == nil || a.server == nil {
		return nil
	}
	return a.server.Shutdown()
}
