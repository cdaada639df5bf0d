package ingester

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
)

// fakeConnector provides a minimal driver so BeginTx yields a real *sql.Tx.
// Statements executed directly on the transaction (savepoints) are recorded;
// everything else goes through the mocked repositories.
type fakeConnector struct {
	mu        sync.Mutex
	execs     []string
	commits   int
	rollbacks int
	commitErr error
}

type fakeConn struct{ c *fakeConnector }
type fakeTx struct{ c *fakeConnector }

func (c *fakeConnector) Connect(context.Context) (driver.Conn, error) { return &fakeConn{c: c}, nil }
func (c *fakeConnector) Driver() driver.Driver                        { return fakeDriver{c: c} }

type fakeDriver struct{ c *fakeConnector }

func (d fakeDriver) Open(string) (driver.Conn, error) { return &fakeConn{c: d.c}, nil }

func (c *fakeConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not implemented") }
func (c *fakeConn) Close() error                       { return nil }
func (c *fakeConn) Begin() (driver.Tx, error)          { return &fakeTx{c: c.c}, nil }

func (c *fakeConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	return &fakeTx{c: c.c}, nil
}

func (c *fakeConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	c.c.mu.Lock()
	defer c.c.mu.Unlock()
	c.c.execs = append(c.c.execs, query)
	return driver.RowsAffected(0), nil
}

func (tx *fakeTx) Commit() error {
	tx.c.mu.Lock()
	defer tx.c.mu.Unlock()
	tx.c.commits++
	return tx.c.commitErr
}

func (tx *fakeTx) Rollback() error {
	tx.c.mu.Lock()
	defer tx.c.mu.Unlock()
	tx.c.rollbacks++
	return nil
}

func (c *fakeConnector) open() *sql.DB {
	return sql.OpenDB(c)
}

func (c *fakeConnector) statements() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.execs...)
}

func (c *fakeConnector) counts() (commits, rollbacks int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commits, c.rollbacks
}
