package internal

import (
	"errors"
	"net"

	"github.com/sqlc-dev/pqtype"
)

var ErrNoServerIpNet = errors.New("ipnet could not be found")

// ServerIpNet picks the first IPv4 network of an interface that is up and
// not a loopback. Analytics rows are keyed by it.
func ServerIpNet() (net.IPNet, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return net.IPNet{}, err
	}

	for _, iface := range ifaces {
		// If the flag is down
		if iface.Flags&net.FlagUp == 0 {
			continue
		}

		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			return net.IPNet{}, err
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ipnet.IP.To4() != nil && !ipnet.IP.IsLoopback() {
				return *ipnet, nil
			}
		}
	}

	return net.IPNet{}, ErrNoServerIpNet
}

func MustGetServerIpNet() net.IPNet {
	ipnet, err := ServerIpNet()
	if err != nil {
		panic(err)
	}
	return ipnet
}

func Inet(ipnet net.IPNet) pqtype.Inet {
	return pqtype.Inet{IPNet: ipnet, Valid: true}
}
