package event

// FetchJob asks a fetch worker for one checkpoint sequence number.
type FetchJob struct {
	WorkerID string
	Sequence int64
}
