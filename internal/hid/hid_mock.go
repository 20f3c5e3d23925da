package hid

// MockChannel is an in-memory Channel fed by tests. Reads drain the
// scripted packet queue first; once the queue is empty a scripted error is
// returned if one is set, otherwise (0, nil) like a non-blocking read with
// nothing buffered.
type MockChannel struct {
	path    string
	packets [][]byte
	err     error
	closed  bool
}

func NewMockChannel(path string) *MockChannel {
	return &MockChannel{path: path}
}

// Push queues one input report.
func (m *MockChannel) Push(p []byte) {
	buf := make([]byte, len(p))
	copy(buf, p)
	m.packets = append(m.packets, buf)
}

// Fail makes reads return err once the packet queue is drained.
func (m *MockChannel) Fail(err error) { m.err = err }

func (m *MockChannel) Closed() bool { return m.closed }

func (m *MockChannel) Read(p []byte) (int, error) {
	if len(m.packets) > 0 {
		pkt := m.packets[0]
		m.packets = m.packets[1:]
		return copy(p, pkt), nil
	}
	if m.err != nil {
		return 0, m.err
	}
	return 0, nil
}

func (m *MockChannel) Write(p []byte) (int, error) { return len(p), nil }

func (m *MockChannel) Close() error {
	m.closed = true
	return nil
}

func (m *MockChannel) Path() string { return m.path }
