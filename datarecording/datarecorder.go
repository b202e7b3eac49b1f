// Package datarecording stores simulation results in SQLite databases.
package datarecording

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that can record and store data
type DataRecorder interface {
	// CreateTable creates a new table with given filename
	CreateTable(tableName string, sampleEntry any)

	// InsertData writes a same-type entry into table that already exists
	InsertData(tableName string, entry any)

	// ListTables returns a slice containing names of all tables
	ListTables() []string

	// Flush flushes all the buffered entries into database
	Flush()

	// Close flushes and closes the database
	Close() error
}

// NewDataRecorder creates a new DataRecorder that writes to path.sqlite3. An
// empty path generates a unique name.
func NewDataRecorder(path string) DataRecorder {
	w := NewSQLiteWriter(path)
	w.Init()

	atexit.Register(func() { w.Flush() })

	return w
}

// NewDataRecorderWithDB creates a new DataRecorder with a given database.
func NewDataRecorderWithDB(db *sql.DB) DataRecorder {
	w := &SQLiteWriter{
		DB:        db,
		batchSize: defaultBatchSize,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() { w.Flush() })

	return w
}

const defaultBatchSize = 100000

type table struct {
	structType reflect.Type
	entries    []any
}

// SQLiteWriter is the writer that writes data into SQLite database. It is safe
// for concurrent use.
type SQLiteWriter struct {
	*sql.DB

	lock       sync.Mutex
	dbName     string
	tables     map[string]*table
	tableOrder []string
	batchSize  int
	entryCount int
}

// NewSQLiteWriter creates a writer. Init must be called before use.
func NewSQLiteWriter(path string) *SQLiteWriter {
	return &SQLiteWriter{
		dbName:    path,
		batchSize: defaultBatchSize,
		tables:    make(map[string]*table),
	}
}

// Filename returns the database file of the writer.
func (t *SQLiteWriter) Filename() string {
	return t.dbName + ".sqlite3"
}

// Init establishes a connection to the database.
func (t *SQLiteWriter) Init() {
	if t.dbName == "" {
		t.dbName = "filterkit_recording_" + xid.New().String()
	}

	filename := t.Filename()

	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	err = db.Ping()
	if err != nil {
		panic(err)
	}

	t.DB = db
}

func isAllowedKind(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

func structFieldsMustBeAllowed(entry any) error {
	types := reflect.TypeOf(entry)
	if types.Kind() != reflect.Struct {
		return errors.New("entry must be a struct")
	}

	for i := 0; i < types.NumField(); i++ {
		field := types.Field(i)
		if !isAllowedKind(field.Type.Kind()) {
			return fmt.Errorf("field %s of kind %s cannot be recorded",
				field.Name, field.Type.Kind())
		}
	}

	return nil
}

// CreateTable creates a table whose columns are the fields of sampleEntry.
func (t *SQLiteWriter) CreateTable(tableName string, sampleEntry any) {
	err := structFieldsMustBeAllowed(sampleEntry)
	if err != nil {
		panic(err)
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	if _, exists := t.tables[tableName]; exists {
		panic(fmt.Sprintf("table %s already exists", tableName))
	}

	fields := strings.Join(structs.Names(sampleEntry), ", \n\t")
	createTableSQL := `CREATE TABLE ` + tableName +
		` (` + "\n\t" + fields + "\n" + `);`
	t.mustExecute(createTableSQL)

	t.tables[tableName] = &table{
		structType: reflect.TypeOf(sampleEntry),
	}
	t.tableOrder = append(t.tableOrder, tableName)
}

// InsertData buffers an entry. The buffer is flushed when it is full.
func (t *SQLiteWriter) InsertData(tableName string, entry any) {
	t.lock.Lock()
	defer t.lock.Unlock()

	table, exists := t.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	if reflect.TypeOf(entry) != table.structType {
		panic(fmt.Sprintf("entry of type %T does not match table %s",
			entry, tableName))
	}

	table.entries = append(table.entries, entry)

	t.entryCount++
	if t.entryCount >= t.batchSize {
		t.flush()
	}
}

// ListTables returns the tables in creation order.
func (t *SQLiteWriter) ListTables() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	return append([]string(nil), t.tableOrder...)
}

// Flush writes all the buffered entries in one transaction.
func (t *SQLiteWriter) Flush() {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.flush()
}

func (t *SQLiteWriter) flush() {
	if t.entryCount == 0 {
		return
	}

	tx, err := t.Begin()
	if err != nil {
		panic(err)
	}

	for _, tableName := range t.tableOrder {
		table := t.tables[tableName]
		if len(table.entries) == 0 {
			continue
		}

		stmt := t.prepareStatement(tx, tableName, table.entries[0])

		for _, entry := range table.entries {
			_, err := stmt.Exec(structs.Values(entry)...)
			if err != nil {
				panic(err)
			}
		}

		table.entries = nil
		stmt.Close()
	}

	err = tx.Commit()
	if err != nil {
		panic(err)
	}

	t.entryCount = 0
}

// Close flushes the buffered entries and closes the database.
func (t *SQLiteWriter) Close() error {
	t.Flush()

	return t.DB.Close()
}

func (t *SQLiteWriter) mustExecute(query string) sql.Result {
	res, err := t.Exec(query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to execute: %s\n", query)
		panic(err)
	}

	return res
}

func (t *SQLiteWriter) prepareStatement(
	tx *sql.Tx,
	tableName string,
	entry any,
) *sql.Stmt {
	n := structs.Names(entry)
	for i := range n {
		n[i] = "?"
	}

	sqlStr := "INSERT INTO " + tableName +
		" VALUES (" + strings.Join(n, ", ") + ")"

	stmt, err := tx.Prepare(sqlStr)
	if err != nil {
		panic(err)
	}

	return stmt
}
