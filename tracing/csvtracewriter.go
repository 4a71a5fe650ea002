package tracing

import (
	"fmt"
	"os"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// CSVTraceWriter is a Writer that stores tasks in a CSV file.
type CSVTraceWriter struct {
	path string
	file *os.File

	tasks      []Task
	bufferSize int
}

// NewCSVTraceWriter creates a CSVTraceWriter that writes to path+".csv".
// If path is empty, a unique name is generated on Init.
func NewCSVTraceWriter(path string) *CSVTraceWriter {
	return &CSVTraceWriter{
		path:       path,
		bufferSize: 1000,
	}
}

// Init creates the trace file. It panics if the file already exists.
func (t *CSVTraceWriter) Init() {
	if t.path == "" {
		t.path = "cachecore_trace_" + xid.New().String()
	}

	filename := t.path + ".csv"

	if _, err := os.Stat(filename); err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	file, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	t.file = file

	fmt.Fprintf(file, "ID, ParentID, Kind, What, Where, StartCycle, EndCycle, Tags\n")

	atexit.Register(func() {
		t.Flush()
		if err := t.file.Close(); err != nil {
			panic(err)
		}
	})
}

// Write buffers task for writing, flushing once the buffer fills.
func (t *CSVTraceWriter) Write(task Task) {
	t.tasks = append(t.tasks, task)
	if len(t.tasks) >= t.bufferSize {
		t.Flush()
	}
}

// Flush writes all buffered tasks to the CSV file.
func (t *CSVTraceWriter) Flush() {
	for _, task := range t.tasks {
		fmt.Fprintf(t.file, "%s, %s, %s, %s, %s, %d, %d, %q\n",
			task.ID,
			task.ParentID,
			task.Kind,
			task.What,
			task.Where,
			task.StartCycle,
			task.EndCycle,
			task.Tags,
		)
	}

	t.tasks = nil
}
