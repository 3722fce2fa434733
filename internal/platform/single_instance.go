package platform

import (
	"bufio"
	"fmt"
	"hash/fnv"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrAlreadyRunning indicates another cydwatch process holds the lock.
	ErrAlreadyRunning = errors.New("instance already running")
	// ErrPortInUse indicates the lock port is held by an unrelated program.
	ErrPortInUse      = errors.New("instance lock port in use by another program")
)

const (
	minPort = 20000
	maxPort = 39999

	bannerPrefix    = "cydwatch-instance "
	identifyTimeout = 500 * time.Millisecond
)

// InstanceGuard holds the single-instance lock: a loopback port derived
// from the lock name, bound for the lifetime of the process. Anyone who
// connects is told the lock name, which is how a second start tells a
// running instance apart from a foreign program on the same port.
type InstanceGuard struct {
	mu       sync.Mutex
	name     string
	listener net.Listener
	address  string
	served   chan struct{}
}

// AcquireSingleInstance binds the loopback port for name. It returns
// ErrAlreadyRunning when another instance with the same name holds it and
// ErrPortInUse when something else does.
func AcquireSingleInstance(name string) (*InstanceGuard, error) {
	return acquireAt(name, fmt.Sprintf("127.0.0.1:%d", portFromName(name)))
}

func acquireAt(name, address string) (*InstanceGuard, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		if identify(address) == name {
			return nil, errors.Wrapf(ErrAlreadyRunning, "%s on %s", name, address)
		}
		return nil, errors.Wrapf(ErrPortInUse, "%s on %s (%v)", name, address, err)
	}

	guard := &InstanceGuard{
		name:     name,
		listener: listener,
		address:  listener.Addr().String(),
		served:   make(chan struct{}),
	}
	go guard.serve(listener)
	return guard, nil
}

// serve answers every connection with the banner until the listener closes.
func (guard *InstanceGuard) serve(listener net.Listener) {
	defer close(guard.served)
	for {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(identifyTimeout))
		_, _ = fmt.Fprintf(conn, "%s%s\n", bannerPrefix, guard.name)
		_ = conn.Close()
	}
}

// identify returns the lock name announced on address, or "" when the
// holder does not speak the banner.
func identify(address string) string {
	conn, err := net.DialTimeout("tcp", address, identifyTimeout)
	if err != nil {
		return ""
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(identifyTimeout))

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return ""
	}
	name, ok := strings.CutPrefix(strings.TrimSpace(line), bannerPrefix)
	if !ok {
		return ""
	}
	return name
}

// Release frees the lock. It is safe to call more than once.
func (guard *InstanceGuard) Release() error {
	if guard == nil {
		return nil
	}
	guard.mu.Lock()
	listener := guard.listener
	guard.listener = nil
	guard.mu.Unlock()
	if listener == nil {
		return nil
	}

	err := listener.Close()
	<-guard.served
	if err != nil {
		return errors.Wrap(err, "release instance lock")
	}
	return nil
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func portFromName(name string) int {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(name))
	return minPort + int(hash.Sum32()%uint32(maxPort-minPort+1))
}
