package tracing

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// SQLiteTraceWriter writes trace data into a SQLite database. It batches
// inserts and commits them as a single transaction once the batch fills
// or Flush is called directly.
type SQLiteTraceWriter struct {
	*sql.DB
	statement *sql.Stmt

	dbName           string
	tasksToWriteToDB []Task
	batchSize        int
}

// NewSQLiteTraceWriter creates a SQLiteTraceWriter backed by dbName+
// ".sqlite3". If dbName is empty, a unique name is generated on Init.
// The database is flushed automatically on process exit.
func NewSQLiteTraceWriter(dbName string) *SQLiteTraceWriter {
	w := &SQLiteTraceWriter{
		dbName:    dbName,
		batchSize: 10000,
	}

	atexit.Register(func() { w.Flush() })

	return w
}

// Init creates the database file and the trace table.
func (t *SQLiteTraceWriter) Init() {
	t.createDatabase()
	t.createTable()
	t.prepareStatement()
}

// Write buffers task for writing, flushing once the batch fills.
func (t *SQLiteTraceWriter) Write(task Task) {
	t.tasksToWriteToDB = append(t.tasksToWriteToDB, task)
	if len(t.tasksToWriteToDB) >= t.batchSize {
		t.Flush()
	}
}

// Flush writes all buffered tasks to the database in one transaction.
func (t *SQLiteTraceWriter) Flush() {
	if len(t.tasksToWriteToDB) == 0 {
		return
	}

	t.mustExecute("BEGIN TRANSACTION")

	for _, task := range t.tasksToWriteToDB {
		tagsJSON, err := json.Marshal(task.Tags)
		if err != nil {
			panic(err)
		}

		_, err = t.statement.Exec(
			task.ID,
			task.ParentID,
			task.Kind,
			task.What,
			task.Where,
			task.StartCycle,
			task.EndCycle,
			string(tagsJSON),
		)
		if err != nil {
			panic(err)
		}
	}

	t.mustExecute("COMMIT TRANSACTION")

	t.tasksToWriteToDB = nil
}

func (t *SQLiteTraceWriter) createDatabase() {
	if t.dbName == "" {
		t.dbName = "cachecore_trace_" + xid.New().String()
	}

	filename := t.dbName + ".sqlite3"

	if _, err := os.Stat(filename); err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	t.DB = db
}

func (t *SQLiteTraceWriter) createTable() {
	t.mustExecute(`
		create table trace
		(
			task_id     varchar(200) not null,
			parent_id   varchar(200),
			kind        varchar(100),
			what        varchar(100),
			location    varchar(100),
			start_cycle integer not null,
			end_cycle   integer default 0,
			tags        text
		);
	`)

	t.mustExecute(`create index trace_task_id_index on trace (task_id);`)
	t.mustExecute(`create index trace_parent_id_index on trace (parent_id);`)
	t.mustExecute(`create index trace_kind_index on trace (kind);`)
	t.mustExecute(`create index trace_start_cycle_index on trace (start_cycle);`)
}

func (t *SQLiteTraceWriter) prepareStatement() {
	stmt, err := t.Prepare(`INSERT INTO trace VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		panic(err)
	}

	t.statement = stmt
}

func (t *SQLiteTraceWriter) mustExecute(query string) {
	_, err := t.Exec(query)
	if err != nil {
		panic(err)
	}
}
