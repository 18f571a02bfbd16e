package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// fakeDB backs a database/sql connection with canned statement results keyed
// by substring, and records every statement it sees so tests can count them.
type fakeDB struct {
	mu    sync.Mutex
	rules []*dbRule
	log   []string
}

type dbRule struct {
	contains string
	err      error
	affected int64
	lastID   int64
	columns  []string
	rowSets  [][][]driver.Value
	hits     int
}

// stubQuery returns one row set per matching query; the last set repeats once
// the sets run out.
func (f *fakeDB) stubQuery(substr string, columns []string, sets ...[][]driver.Value) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, &dbRule{contains: substr, columns: columns, rowSets: sets})
}

func (f *fakeDB) stubError(substr string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, &dbRule{contains: substr, err: err})
}

// count reports how many executed statements contained the substring.
func (f *fakeDB) count(substr string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, q := range f.log {
		if strings.Contains(q, substr) {
			n++
		}
	}
	return n
}

// take records the statement and returns the matching rule plus the row set
// for this hit, if any.
func (f *fakeDB) take(query string) (*dbRule, [][]driver.Value) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log = append(f.log, query)
	for _, r := range f.rules {
		if strings.Contains(query, r.contains) {
			var set [][]driver.Value
			if len(r.rowSets) > 0 {
				i := r.hits
				if i >= len(r.rowSets) {
					i = len(r.rowSets) - 1
				}
				set = r.rowSets[i]
			}
			r.hits++
			return r, set
		}
	}
	return nil, nil
}

type fakeDriver struct{}

var (
	fakeDBs          sync.Map
	fakeDBSeq        int64
	registerFakeOnce sync.Once
)

func (fakeDriver) Open(name string) (driver.Conn, error) {
	v, ok := fakeDBs.Load(name)
	if !ok {
		return nil, fmt.Errorf("unknown fake db %q", name)
	}
	return &fakeConn{db: v.(*fakeDB)}, nil
}

func newFakeDB(t *testing.T) (*sql.DB, *fakeDB) {
	t.Helper()
	registerFakeOnce.Do(func() { sql.Register("fakedb", fakeDriver{}) })

	fdb := &fakeDB{}
	name := fmt.Sprintf("fake-%d", atomic.AddInt64(&fakeDBSeq, 1))
	fakeDBs.Store(name, fdb)

	db, err := sql.Open("fakedb", name)
	if err != nil {
		t.Fatalf("open fake db: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		fakeDBs.Delete(name)
	})
	return db, fdb
}

type fakeConn struct{ db *fakeDB }

func (c *fakeConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}
func (c *fakeConn) Close() error              { return nil }
func (c *fakeConn) Begin() (driver.Tx, error) { return fakeTx{}, nil }

type fakeTx struct{}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

type fakeResult struct{ lastID, affected int64 }

func (r fakeResult) LastInsertId() (int64, error) { return r.lastID, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.affected, nil }

func (c *fakeConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	rule, _ := c.db.take(query)
	if rule == nil {
		return fakeResult{lastID: 1, affected: 1}, nil
	}
	if rule.err != nil {
		return nil, rule.err
	}
	return fakeResult{lastID: rule.lastID, affected: rule.affected}, nil
}

func (c *fakeConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	rule, set := c.db.take(query)
	if rule == nil {
		return &fakeRows{}, nil
	}
	if rule.err != nil {
		return nil, rule.err
	}
	return &fakeRows{columns: rule.columns, rows: set}, nil
}

type fakeRows struct {
	columns []string
	rows    [][]driver.Value
	pos     int
}

func (r *fakeRows) Columns() []string { return r.columns }
func (r *fakeRows) Close() error      { return nil }
func (r *fakeRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.pos])
	r.pos++
	return nil
}
