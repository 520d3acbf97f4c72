package internal

import (
	"errors"
	"net"
	"testing"
)

func TestInet(t *testing.T) {
	ipnet := net.IPNet{IP: net.IPv4(192, 168, 1, 20), Mask: net.CIDRMask(24, 32)}

	inet := Inet(ipnet)
	if !inet.Valid {
		t.Fatal("expected valid inet")
	}
	if inet.IPNet.String() != ipnet.String() {
		t.Fatalf("expected ipnet: %s\tgot: %s", ipnet.String(), inet.IPNet.String())
	}
}

// Machines without a usable interface report it instead of panicking.
func TestServerIpNet(t *testing.T) {
	ipnet, err := ServerIpNet()
	if err != nil {
		if !errors.Is(err, ErrNoServerIpNet) {
			t.Fatalf("unexpected error: %v", err)
		}
		return
	}
	if ipnet.IP.To4() == nil || ipnet.IP.IsLoopback() {
		t.Fatalf("expected non-loopback IPv4\tgot: %s", ipnet.String())
	}
}
