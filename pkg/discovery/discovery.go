// Package discovery announces and finds peers on the local network via
// mDNS.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/user/nalshow/pkg/ports"
)

const (
	// ServiceName is the mDNS service type peers register under.
	ServiceName = "_eye-spy._tcp"

	// Domain is the mDNS domain.
	Domain = "local."
)

// ErrNoInterface is returned when no non-loopback IPv4 interface exists.
var ErrNoInterface = errors.New("discovery: no non-loopback IPv4 interface")

// Peer is one discovered service instance.
type Peer struct {
	Instance string
	HostName string
	Addrs    []net.IP
	Port     int
	Text     []string
}

// String formats the peer for console output.
func (p Peer) String() string {
	addr := "?"
	if len(p.Addrs) > 0 {
		addr = p.Addrs[0].String()
	}
	return fmt.Sprintf("%s (%s) %s:%d %v", p.Instance, p.HostName, addr, p.Port, p.Text)
}

// LocalIPv4 returns the first non-loopback IPv4 address of this machine.
func LocalIPv4() (net.IP, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("list interfaces: %w", err)
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip4 := ip.To4(); ip4 != nil && !ip4.IsLoopback() {
				return ip4, nil
			}
		}
	}

	return nil, ErrNoInterface
}

// Announcer keeps a service registration alive until shut down.
type Announcer struct {
	server *zeroconf.Server
	logger ports.Logger
}

// Announce registers this machine as a peer on the given port.
// An empty instance name falls back to the hostname.
func Announce(instance string, port int, inCall bool, logger ports.Logger) (*Announcer, error) {
	if instance == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "nalshow"
		}
		instance = hostname
	}

	// Registration is pointless if peers cannot reach us.
	ip, err := LocalIPv4()
	if err != nil {
		return nil, err
	}

	server, err := zeroconf.Register(instance, ServiceName, Domain, port, TxtProperties(inCall), nil)
	if err != nil {
		return nil, fmt.Errorf("register mdns service: %w", err)
	}

	logger.Info("Announcing service on %s:%d", ip, port)

	return &Announcer{
		server: server,
		logger: logger,
	}, nil
}

// Shutdown unregisters the service.
func (a *Announcer) Shutdown() {
	a.server.Shutdown()
}

// TxtProperties builds the TXT record for a registration.
func TxtProperties(inCall bool) []string {
	return []string{fmt.Sprintf("in_call=%t", inCall)}
}

// Browse looks for peers until the timeout elapses and returns everything
// found.
func Browse(ctx context.Context, timeout time.Duration, logger ports.Logger) ([]Peer, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("create mdns resolver: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	if err := resolver.Browse(ctx, ServiceName, Domain, entries); err != nil {
		return nil, fmt.Errorf("browse mdns services: %w", err)
	}

	logger.Info("Browsing for peers...")

	var peers []Peer
	for entry := range entries {
		peer := Peer{
			Instance: entry.Instance,
			HostName: entry.HostName,
			Port:     entry.Port,
			Text:     entry.Text,
		}
		peer.Addrs = append(peer.Addrs, entry.AddrIPv4...)
		peers = append(peers, peer)
	}

	return peers, nil
}
