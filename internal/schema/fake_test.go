package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgscope/pgscope/internal/database"
	"github.com/pgscope/pgscope/internal/errs"
)

// fakePool implements database.DB over canned results. Queries are matched
// by a distinctive fragment of their SQL text.
type fakePool struct {
	results  map[string]*fakeResult // fragment -> rows
	execErr  error
	executed []string
	queried  [][]any // args of each Query/QueryRow call
}

type fakeResult struct {
	rows [][]any
	err  error
}

func newFakePool() *fakePool {
	return &fakePool{results: map[string]*fakeResult{}}
}

func (f *fakePool) on(fragment string, rows ...[]any) *fakePool {
	f.results[fragment] = &fakeResult{rows: rows}
	return f
}

func (f *fakePool) lookup(sql string) *fakeResult {
	for frag, res := range f.results {
		if strings.Contains(sql, frag) {
			return res
		}
	}
	return &fakeResult{}
}

func (f *fakePool) Ping(context.Context) error { return nil }

func (f *fakePool) Query(_ context.Context, sql string, args ...any) (database.Rows, error) {
	f.queried = append(f.queried, args)
	res := f.lookup(sql)
	if res.err != nil {
		return nil, res.err
	}
	return &fakeRows{rows: res.rows}, nil
}

func (f *fakePool) QueryRow(_ context.Context, sql string, args ...any) database.Row {
	f.queried = append(f.queried, args)
	res := f.lookup(sql)
	return &fakeRow{res: res}
}

func (f *fakePool) Exec(_ context.Context, sql string, _ ...any) (int64, error) {
	if f.execErr != nil {
		return 0, f.execErr
	}
	f.executed = append(f.executed, sql)
	return 0, nil
}

func (f *fakePool) Close() {}

type fakeRows struct {
	rows [][]any
	i    int
}

func (r *fakeRows) Next() bool {
	if r.i >= len(r.rows) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return assign(r.rows[r.i-1], dest)
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }

type fakeRow struct{ res *fakeResult }

func (r *fakeRow) Scan(dest ...any) error {
	if r.res.err != nil {
		return r.res.err
	}
	if len(r.res.rows) == 0 {
		return errs.New(errs.ErrKindNotFound, "record not found")
	}
	return assign(r.res.rows[0], dest)
}

func assign(row []any, dest []any) error {
	if len(row) != len(dest) {
		return fmt.Errorf("scan: want %d destinations, got %d", len(row), len(dest))
	}
	for i, v := range row {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *bool:
			*d = v.(bool)
		case *int:
			*d = v.(int)
		case **string:
			if v == nil {
				*d = nil
			} else {
				s := v.(string)
				*d = &s
			}
		case **int:
			if v == nil {
				*d = nil
			} else {
				n := v.(int)
				*d = &n
			}
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

// fakeProvider implements PoolProvider.
type fakeProvider struct {
	active *fakePool
	admin  *fakePool
}

func (p *fakeProvider) Active() (database.DB, error) {
	if p.active == nil {
		return nil, errs.New(errs.ErrKindNotConnected, "no active database connection; connect first")
	}
	return p.active, nil
}

func (p *fakeProvider) Admin() database.DB { return p.admin }
