package shm

// ClientID is the only valid client slot.
const ClientID = 1

// Pair is the two shared regions of the driver boundary: one carrying data
// from the driver toward the client, one carrying data the client prepared
// to send outward. Both are allocated once and never resized.
type Pair struct {
	driver *Buffer
	client *Buffer
}

// NewPair allocates both regions with the same capacity.
func NewPair(size int) *Pair {
	return &Pair{
		driver: NewBuffer(size),
		client: NewBuffer(size),
	}
}

// Driver returns the driver-inbound region. The transmit and receive paths
// address it directly; there is no lookup by id.
func (p *Pair) Driver() *Buffer {
	return p.driver
}

// ClientBuf resolves a client slot id to its outbound region. Only ClientID
// is populated; every other id has no buffer.
func (p *Pair) ClientBuf(id int) *Buffer {
	if id == ClientID {
		return p.client
	}

	return nil
}
