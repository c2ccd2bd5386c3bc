package discovery

import (
	"net"
	"strings"
	"testing"
)

func TestTxtProperties(t *testing.T) {
	if got := TxtProperties(false); got[0] != "in_call=false" {
		t.Errorf("expected in_call=false, got %q", got[0])
	}
	if got := TxtProperties(true); got[0] != "in_call=true" {
		t.Errorf("expected in_call=true, got %q", got[0])
	}
}

func TestPeerString(t *testing.T) {
	peer := Peer{
		Instance: "bench-1",
		HostName: "bench-1.local.",
		Addrs:    []net.IP{net.IPv4(192, 168, 1, 10)},
		Port:     9000,
		Text:     []string{"in_call=false"},
	}

	s := peer.String()
	for _, want := range []string{"bench-1", "192.168.1.10", "9000", "in_call=false"} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q in %q", want, s)
		}
	}
}

func TestPeerString_NoAddr(t *testing.T) {
	s := Peer{Instance: "x", Port: 1}.String()
	if !strings.Contains(s, "?") {
		t.Errorf("expected address placeholder in %q", s)
	}
}

func TestLocalIPv4_NotLoopback(t *testing.T) {
	ip, err := LocalIPv4()
	if err != nil {
		// Machines without a network interface are a legal environment.
		t.Skipf("no usable interface: %v", err)
	}
	if ip.IsLoopback() {
		t.Errorf("expected non-loopback address, got %s", ip)
	}
}
