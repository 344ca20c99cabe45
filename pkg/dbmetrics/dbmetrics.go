// Package dbmetrics обёртка над *sql.DB с метриками запросов и передачей транзакции через context
package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// DBExecutor общий интерфейс для *sql.DB, *sql.Tx и обёрток
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxExecutor транзакция, с которой работают репозитории
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

// Recorder принимает метрики запросов (реализуется *metrics.Metrics)
type Recorder interface {
	ObserveDBQuery(operation string, duration time.Duration, err error)
	SetDBPoolStats(stats sql.DBStats)
}

// DefaultPoolStatsInterval период сбора статистики connection pool
const DefaultPoolStatsInterval = 15 * time.Second

// DB обёртка над *sql.DB. recorder может быть nil - тогда метрики не пишутся
type DB struct {
	db       *sql.DB
	recorder Recorder
}

// Wrap оборачивает *sql.DB без фонового сбора статистики пула
func Wrap(db *sql.DB, recorder Recorder) *DB {
	return &DB{db: db, recorder: recorder}
}

// WrapWithDefault оборачивает *sql.DB и запускает сбор статистики пула до закрытия stopCh
func WrapWithDefault(db *sql.DB, recorder Recorder, stopCh <-chan struct{}) *DB {
	wrapped := Wrap(db, recorder)
	if recorder != nil {
		go wrapped.collectPoolStats(DefaultPoolStatsInterval, stopCh)
	}
	return wrapped
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.observe(query, start, err)
	return res, err
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.observe(query, start, err)
	return rows, err
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.observe(query, start, row.Err())
	return row
}

// BeginTx начинает транзакцию, запросы внутри которой тоже попадают в метрики
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &metricsTx{tx: tx, parent: d}, nil
}

// PingContext проверяет соединение с БД
func (d *DB) PingContext(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DB) observe(query string, start time.Time, err error) {
	if d.recorder == nil {
		return
	}
	d.recorder.ObserveDBQuery(operationName(query), time.Since(start), err)
}

func (d *DB) collectPoolStats(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.recorder.SetDBPoolStats(d.db.Stats())
		case <-stopCh:
			return
		}
	}
}

type metricsTx struct {
	tx     *sql.Tx
	parent *DB
}

func (t *metricsTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	t.parent.observe(query, start, err)
	return res, err
}

func (t *metricsTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.parent.observe(query, start, err)
	return rows, err
}

func (t *metricsTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	t.parent.observe(query, start, row.Err())
	return row
}

func (t *metricsTx) Commit() error {
	return t.tx.Commit()
}

func (t *metricsTx) Rollback() error {
	return t.tx.Rollback()
}

// operationName выделяет тип и таблицу запроса для лейбла метрики ("select bookings")
func operationName(query string) string {
	fields := strings.Fields(strings.ToLower(query))
	if len(fields) == 0 {
		return "unknown"
	}

	verb := fields[0]
	var marker string
	switch verb {
	case "select", "delete":
		marker = "from"
	case "insert":
		marker = "into"
	case "update":
		if len(fields) > 1 {
			return verb + " " + fields[1]
		}
		return verb
	default:
		return verb
	}

	for i, f := range fields {
		if f == marker && i+1 < len(fields) {
			return verb + " " + strings.Trim(fields[i+1], "\"(")
		}
	}
	return verb
}
