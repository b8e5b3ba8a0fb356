package node

import (
	"os"
	"strings"
)

// determineHost picks the hostname or IP other nodes should use to
// reach this process: ROS_HOSTNAME wins outright, then ROS_IP, then
// the machine's own hostname. onlyLocalhost reports whether the
// chosen value only makes sense to processes on the same machine, in
// which case the node should bind its listeners to the loopback
// interface rather than every interface.
func determineHost() (host string, onlyLocalhost bool) {
	if h := os.Getenv("ROS_HOSTNAME"); h != "" {
		return h, isLocalhost(h)
	}
	if ip := os.Getenv("ROS_IP"); ip != "" {
		return ip, isLocalhost(ip)
	}
	if h, err := os.Hostname(); err == nil && h != "" {
		return h, false
	}
	return "localhost", true
}

func isLocalhost(host string) bool {
	return host == "localhost" || host == "::1" || strings.HasPrefix(host, "127.")
}
