package netwatch

import (
	"net"
	"strings"

	"github.com/five82/rewake/internal/trigger"
)

var (
	wifiPrefixes     = []string{"wlan", "wlp", "wlx", "wl", "ath", "wifi"}
	cellularPrefixes = []string{"wwan", "rmnet", "ccmni", "pdp_ip", "ppp"}
	ethernetPrefixes = []string{"eth", "enp", "eno", "ens", "enx", "em", "en"}
)

// classifyAddr maps the local end of a successful dial to a connection type by
// looking up the interface that owns the address.
func classifyAddr(addr net.Addr) trigger.ConnectionType {
	ip := addrIP(addr)
	if ip == nil {
		return trigger.ConnectionUnknown
	}
	if ip.IsLoopback() {
		return trigger.ConnectionLoopback
	}
	ifaces, err := net.Interfaces()
	if err != nil {
		return trigger.ConnectionUnknown
	}
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.Equal(ip) {
				return classifyName(iface.Name)
			}
		}
	}
	return trigger.ConnectionUnknown
}

func classifyName(name string) trigger.ConnectionType {
	n := strings.ToLower(strings.TrimSpace(name))
	switch {
	case n == "":
		return trigger.ConnectionUnknown
	case strings.HasPrefix(n, "lo"):
		return trigger.ConnectionLoopback
	case hasAnyPrefix(n, wifiPrefixes):
		return trigger.ConnectionWifi
	case hasAnyPrefix(n, cellularPrefixes):
		return trigger.ConnectionCellular
	case hasAnyPrefix(n, ethernetPrefixes):
		return trigger.ConnectionEthernet
	default:
		return trigger.ConnectionUnknown
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func addrIP(addr net.Addr) net.IP {
	switch a := addr.(type) {
	case *net.TCPAddr:
		return a.IP
	case *net.UDPAddr:
		return a.IP
	case nil:
		return nil
	default:
		host, _, err := net.SplitHostPort(a.String())
		if err != nil {
			return nil
		}
		return net.ParseIP(host)
	}
}
