package catalog

// Recorder observes sync events. Implementations must be safe for concurrent use.
type Recorder interface {
	CacheHit()
	CacheMiss()
	// FetchResult is called once per remote fetch with its error, nil on success.
	FetchResult(err error)
	Inserted(n int)
}

type nopRecorder struct{}

func (nopRecorder) CacheHit()         {}
func (nopRecorder) CacheMiss()        {}
func (nopRecorder) FetchResult(error) {}
func (nopRecorder) Inserted(int)      {}
