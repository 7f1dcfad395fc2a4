package gps

// Source is the interface location providers implement.
type Source interface {
	// NextReading returns a freshly taken location record.
	NextReading() (Record, error)
	// Close releases any resources held by the source.
	Close() error
}
