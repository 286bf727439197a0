package midi

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"acidseq/debug"
)

var (
	clientRe = regexp.MustCompile(`^client (\d+): '([^']+)'`)
	portRe   = regexp.MustCompile(`^\s+(\d+) '([^']+)'`)
)

// Router binds virtual source ports to downstream ALSA consumers. All of it
// is best effort: a failed connection leaves the endpoint open but
// unrouted, and the run continues.
type Router struct {
	retries int
	backoff time.Duration
	sleep   func(time.Duration) // swapped out in tests
	run     func(args ...string) (string, error)
}

// NewRouter returns a router with the standard retry budget.
func NewRouter() *Router {
	return &Router{
		retries: 5,
		backoff: 500 * time.Millisecond,
		sleep:   time.Sleep,
		run:     runAconnect,
	}
}

func runAconnect(args ...string) (string, error) {
	out, err := exec.Command("aconnect", args...).CombinedOutput()
	return string(out), err
}

// Connect resolves srcName and dstName against the current ALSA port list
// and wires them together, retrying up to the budget with a fixed backoff.
func (r *Router) Connect(srcName, dstName string) error {
	for attempt := 0; attempt < r.retries; attempt++ {
		ports, err := r.ports()
		if err != nil {
			debug.Log("router", "aconnect -l failed: %v", err)
			r.sleep(r.backoff)
			continue
		}

		src := lookup(ports, srcName)
		dst := lookup(ports, dstName)
		if src == "" || dst == "" {
			missing := srcName
			if src != "" {
				missing = dstName
			}
			debug.Log("router", "port not found: %s (attempt %d)", missing, attempt+1)
			r.sleep(r.backoff)
			continue
		}

		if _, err := r.run(src, dst); err != nil {
			debug.Log("router", "connect %s -> %s failed: %v", src, dst, err)
			r.sleep(r.backoff)
			continue
		}
		debug.Log("router", "connected %s -> %s", srcName, dstName)
		return nil
	}
	return fmt.Errorf("could not connect %s to %s after %d attempts", srcName, dstName, r.retries)
}

// ports parses `aconnect -l` into "client:port name" -> "client:port"
// address pairs.
func (r *Router) ports() (map[string]string, error) {
	out, err := r.run("-l")
	if err != nil {
		return nil, err
	}

	ports := make(map[string]string)
	var clientNum, clientName string
	for _, line := range strings.Split(out, "\n") {
		if m := clientRe.FindStringSubmatch(line); m != nil {
			clientNum, clientName = m[1], m[2]
			continue
		}
		if clientNum == "" {
			continue
		}
		if m := portRe.FindStringSubmatch(line); m != nil {
			key := clientName + ":" + strings.TrimSpace(m[2])
			ports[key] = clientNum + ":" + m[1]
		}
	}
	return ports, nil
}

// lookup finds the first port whose name contains the wanted substring.
func lookup(ports map[string]string, want string) string {
	for key, addr := range ports {
		if strings.Contains(key, want) {
			return addr
		}
	}
	return ""
}
