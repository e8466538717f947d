package net

import (
	"net"

	"LocalNotebook/internal/logging"
)

// LANAddress is the IPv4 address a pen on the local network should dial:
// the source address of the default route if there is one, otherwise the
// best address of an interface that is up.
func LANAddress() net.IP {
	if ip := routeAddress(); ip != nil {
		return ip
	}
	var addrs []net.Addr
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		a, _ := iface.Addrs()
		addrs = append(addrs, a...)
	}
	if ip := pickIPv4(addrs); ip != nil {
		return ip
	}
	logging.Logger().Warn("[PEN] no LAN address found, pen URL uses loopback")
	return net.IPv4(127, 0, 0, 1).To4()
}

// routeAddress asks the kernel which local address it would send from.
// Connecting a UDP socket sends nothing.
func routeAddress() net.IP {
	conn, err := net.DialUDP("udp4", nil, &net.UDPAddr{IP: net.IPv4(192, 0, 2, 1), Port: 9})
	if err != nil {
		return nil
	}
	defer conn.Close()
	ip := conn.LocalAddr().(*net.UDPAddr).IP.To4()
	if ip == nil || ip.IsUnspecified() || ip.IsLoopback() {
		return nil
	}
	return ip
}

// pickIPv4 prefers a private address, then any other global one.
func pickIPv4(addrs []net.Addr) net.IP {
	var fallback net.IP
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok {
			continue
		}
		ip := ipnet.IP.To4()
		if ip == nil || ip.IsLoopback() || ip.IsLinkLocalUnicast() {
			continue
		}
		if ip.IsPrivate() {
			return ip
		}
		if fallback == nil {
			fallback = ip
		}
	}
	return fallback
}
