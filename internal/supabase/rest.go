package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	postgrest "github.com/supabase-community/postgrest-go"
)

// Query collects a table request. The filters are replayed onto a
// postgrest-go builder when the query runs.
type Query struct {
	client  *Client
	table   string
	columns string
	filters [][2]string
	order   *postgrest.OrderOpts
	orderBy string
	limit   int
}

// From starts a query on table.
func (c *Client) From(table string) *Query {
	return &Query{client: c, table: table}
}

// Select sets the column list.
func (q *Query) Select(columns string) *Query {
	q.columns = columns
	return q
}

// Eq filters rows where column equals value.
func (q *Query) Eq(column, value string) *Query {
	q.filters = append(q.filters, [2]string{column, value})
	return q
}

// Order sorts by column.
func (q *Query) Order(column string, ascending bool) *Query {
	q.orderBy = column
	q.order = &postgrest.OrderOpts{Ascending: ascending}
	return q
}

// Limit caps the number of rows.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// rest returns a postgrest client for one call, bound to ctx and carrying
// the current bearer token.
func (q *Query) rest(ctx context.Context) (*postgrest.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c := q.client
	tok, err := c.accessToken()
	if err != nil {
		return nil, err
	}
	pg := postgrest.NewClient(c.baseURL+"/rest/v1", "", map[string]string{
		"apikey":        c.anonKey,
		"Authorization": "Bearer " + tok,
	})
	if pg.ClientError != nil {
		return nil, pg.ClientError
	}
	pg.Transport.Parent = &contextTransport{ctx: ctx, base: c.base}
	return pg, nil
}

func (q *Query) apply(fb *postgrest.FilterBuilder) *postgrest.FilterBuilder {
	for _, f := range q.filters {
		fb = fb.Eq(f[0], f[1])
	}
	if q.order != nil {
		fb = fb.Order(q.orderBy, q.order)
	}
	if q.limit > 0 {
		fb = fb.Limit(q.limit, "")
	}
	return fb
}

// run executes the built request and decodes the body into out (if non-nil).
func (q *Query) run(ctx context.Context, build func(*postgrest.Client) *postgrest.FilterBuilder, out any) error {
	ctx, cancel := context.WithTimeout(ctx, q.client.timeout)
	defer cancel()
	pg, err := q.rest(ctx)
	if err != nil {
		return err
	}
	fb := build(pg)
	if pg.ClientError != nil {
		return fmt.Errorf("encoding request: %w", pg.ClientError)
	}
	data, _, err := q.apply(fb).Execute()
	if err != nil {
		return restError(err)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// Execute runs a select and decodes the rows into out (a pointer to a slice).
func (q *Query) Execute(ctx context.Context, out any) error {
	err := q.run(ctx, func(pg *postgrest.Client) *postgrest.FilterBuilder {
		return pg.From(q.table).Select(q.columns, "", false)
	}, out)
	if err != nil {
		return fmt.Errorf("selecting from %s: %w", q.table, err)
	}
	return nil
}

// Single runs a select expecting exactly one row. A missing row is reported
// as a 404 *APIError.
func (q *Query) Single(ctx context.Context, out any) error {
	err := q.run(ctx, func(pg *postgrest.Client) *postgrest.FilterBuilder {
		return pg.From(q.table).Select(q.columns, "", false).Single()
	}, out)
	if err != nil {
		return fmt.Errorf("selecting one from %s: %w", q.table, err)
	}
	return nil
}

// Insert creates rows and decodes the representation into out (may be nil).
func (q *Query) Insert(ctx context.Context, rows, out any) error {
	err := q.run(ctx, func(pg *postgrest.Client) *postgrest.FilterBuilder {
		return pg.From(q.table).Insert(rows, false, "", "representation", "")
	}, out)
	if err != nil {
		return fmt.Errorf("inserting into %s: %w", q.table, err)
	}
	return nil
}

// Upsert inserts rows, merging on the onConflict columns.
func (q *Query) Upsert(ctx context.Context, rows any, onConflict string, out any) error {
	err := q.run(ctx, func(pg *postgrest.Client) *postgrest.FilterBuilder {
		return pg.From(q.table).Upsert(rows, onConflict, "representation", "")
	}, out)
	if err != nil {
		return fmt.Errorf("upserting into %s: %w", q.table, err)
	}
	return nil
}

// Update patches the rows matched by the filters.
func (q *Query) Update(ctx context.Context, values, out any) error {
	err := q.run(ctx, func(pg *postgrest.Client) *postgrest.FilterBuilder {
		return pg.From(q.table).Update(values, "representation", "")
	}, out)
	if err != nil {
		return fmt.Errorf("updating %s: %w", q.table, err)
	}
	return nil
}
