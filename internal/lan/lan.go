// Package lan finds the address other machines on the local network can use
// to reach this process.
package lan

import (
	"net"
	"net/netip"
	"strconv"
)

const Loopback = "127.0.0.1"

// LocalIPv4 returns the first non-loopback IPv4 address of an interface that
// is up, or Loopback when there is none.
func LocalIPv4() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return Loopback
	}

	var addrs []net.Addr
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		a, err := iface.Addrs()
		if err != nil {
			continue
		}
		addrs = append(addrs, a...)
	}
	return pickIPv4(addrs)
}

func pickIPv4(addrs []net.Addr) string {
	for _, a := range addrs {
		var ip net.IP
		switch v := a.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		default:
			continue
		}
		addr, ok := netip.AddrFromSlice(ip)
		if !ok {
			continue
		}
		addr = addr.Unmap()
		if addr.Is4() && !addr.IsLoopback() {
			return addr.String()
		}
	}
	return Loopback
}

// ShareURL is the http URL of the server on host.
func ShareURL(host string, port int) string {
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port)) + "/"
}
