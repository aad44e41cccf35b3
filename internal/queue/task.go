package queue

type TaskType string

const (
	// TaskTypeCollect asks the worker to run one platform's collection agent.
	TaskTypeCollect TaskType = "collect"
	// TaskTypeIndexEvents asks the worker to push a platform's recent events
	// into the search index.
	TaskTypeIndexEvents TaskType = "index_events"
)

// Task is the unit of work pushed onto the stream by the server or the
// scheduler and consumed by the worker.
type Task struct {
	TaskType TaskType
	Platform string
	Query    string
	RunID    *int64
	TraceID  *string
	Attempt  int
}
