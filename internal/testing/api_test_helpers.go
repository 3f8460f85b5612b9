// Package testing provides an in-process stand-in for a VIIPER server: the
// bus/device line protocol plus binary device streams.
package testing

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Alia5/joybridge/apitypes"
)

var streamPath = regexp.MustCompile(`^bus/(\d+)/(\d+)$`)

// FakeServer records API commands and collects frames written to device streams.
type FakeServer struct {
	Addr string

	// Frames receives a copy of every stream frame.
	Frames chan []byte

	ln        net.Listener
	frameSize int

	mu       sync.Mutex
	buses    map[uint32][]string
	nextDev  map[uint32]int
	commands []string
	streams  []net.Conn
	wg       sync.WaitGroup
}

// StartAPIServer starts a fake server on a free port. frameSize is the
// size of the client->device frames of the emulated device type. The
// server is closed when the test ends.
func StartAPIServer(t *testing.T, frameSize int) *FakeServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	s := &FakeServer{
		Addr:      ln.Addr().String(),
		Frames:    make(chan []byte, 1024),
		ln:        ln,
		frameSize: frameSize,
		buses:     map[uint32][]string{},
		nextDev:   map[uint32]int{},
	}
	s.wg.Add(1)
	go s.serve()
	t.Cleanup(s.Close)
	return s
}

// AddBus pre-creates a bus.
func (s *FakeServer) AddBus(id uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buses[id]; !ok {
		s.buses[id] = nil
	}
}

// Devices returns the device ids attached to a bus.
func (s *FakeServer) Devices(bus uint32) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.buses[bus]...)
}

// Commands returns every non-stream command line received so far.
func (s *FakeServer) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

// SendFeedback writes b to every open device stream.
func (s *FakeServer) SendFeedback(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.streams {
		_, _ = c.Write(b)
	}
}

// WaitStreams blocks until n streams are open or the timeout passes.
func (s *FakeServer) WaitStreams(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		got := len(s.streams)
		s.mu.Unlock()
		if got >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func (s *FakeServer) Close() {
	_ = s.ln.Close()
	s.mu.Lock()
	for _, c := range s.streams {
		_ = c.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *FakeServer) serve() {
	defer s.wg.Done()
	for {
		c, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(c)
		}()
	}
}

func (s *FakeServer) handleConn(c net.Conn) {
	defer c.Close()
	r := bufio.NewReader(c)
	line, err := r.ReadString('\n')
	if err != nil {
		return
	}
	line = strings.TrimSpace(line)
	if streamPath.MatchString(line) {
		s.handleStream(c, r)
		return
	}
	s.mu.Lock()
	s.commands = append(s.commands, line)
	resp := s.route(line)
	s.mu.Unlock()
	_, _ = fmt.Fprintf(c, "%s\n", resp)
}

func (s *FakeServer) handleStream(c net.Conn, r *bufio.Reader) {
	s.mu.Lock()
	s.streams = append(s.streams, c)
	s.mu.Unlock()
	for {
		buf := make([]byte, s.frameSize)
		if _, err := io.ReadFull(r, buf); err != nil {
			return
		}
		s.Frames <- buf
	}
}

func (s *FakeServer) route(line string) string {
	path, arg, _ := strings.Cut(line, " ")
	parts := strings.Split(path, "/")
	switch {
	case path == "bus/list":
		ids := make([]uint32, 0, len(s.buses))
		for id := range s.buses {
			ids = append(ids, id)
		}
		return marshal(apitypes.BusListResponse{Buses: ids})
	case path == "bus/create":
		id, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return jsonError("invalid bus id")
		}
		if _, ok := s.buses[uint32(id)]; ok {
			return jsonError("bus exists")
		}
		s.buses[uint32(id)] = nil
		return marshal(apitypes.BusCreateResponse{BusID: uint32(id)})
	case len(parts) == 3 && parts[0] == "bus":
		id64, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil {
			return jsonError("invalid bus id")
		}
		id := uint32(id64)
		devs, ok := s.buses[id]
		if !ok {
			return jsonError("unknown bus")
		}
		switch parts[2] {
		case "add":
			s.nextDev[id]++
			dev := strconv.Itoa(s.nextDev[id])
			s.buses[id] = append(devs, dev)
			return marshal(apitypes.DeviceAddResponse{ID: fmt.Sprintf("%d-%s", id, dev)})
		case "remove":
			for i, d := range devs {
				if d == arg {
					s.buses[id] = append(devs[:i:i], devs[i+1:]...)
					return marshal(apitypes.DeviceRemoveResponse{BusID: id, DevId: d})
				}
			}
			return jsonError("unknown device")
		case "list":
			out := apitypes.DevicesListResponse{Devices: []apitypes.Device{}}
			for _, d := range devs {
				out.Devices = append(out.Devices, apitypes.Device{BusID: id, DevId: d, Type: "dualshock4"})
			}
			return marshal(out)
		}
	}
	return jsonError("unknown path")
}

// ExecCmd sends one raw command line and returns the response without the
// trailing newline.
func ExecCmd(t *testing.T, addr string, cmd string) string {
	t.Helper()
	c, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer c.Close()
	_, _ = fmt.Fprintf(c, "%s\n", cmd)
	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil && err != io.EOF {
		t.Fatalf("read failed: %v", err)
	}
	return strings.TrimSuffix(line, "\n")
}

func marshal(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func jsonError(msg string) string {
	return marshal(map[string]string{"error": msg})
}
