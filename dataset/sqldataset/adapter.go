package sqldataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
)

/*
MaxSampleInsertionsPerStatement is the maximum number
of samples that are allowed to be added with a single
insert command with the AddSamples method of the adapter.
Trying to add more will result in making more insertion commands
*/
const MaxSampleInsertionsPerStatement = 10

/*
Adapter is an interface providing the methods
needed to implement a Store with a database backend.
*/
type Adapter interface {
	// ColumnName returns the column name for a feature name
	ColumnName(string) (string, error)

	CreateSampleTable(ctx context.Context, integerFeatureColumns, continuousFeatureColumns []string) error

	AddSamples(ctx context.Context, rawSamples []map[string]interface{}, integerFeatureColumns, continuousFeatureColumns []string) (int, error)
	// IterateOnSamples calls lambda with the id and raw sample of every
	// row satisfying the criteria, in id order, until it returns false
	// or an error.
	IterateOnSamples(ctx context.Context, criteria []*FeatureCriterion, integerFeatureColumns, continuousFeatureColumns []string, lambda func(int, map[string]interface{}) (bool, error)) error
	CountSamples(context.Context, []*FeatureCriterion) (int, error)

	Close() error
}

/*
Dialect holds what differs between the SQL databases an adapter can
work on.
*/
type Dialect struct {
	// IDColumn is the definition of the "id" primary key column
	IDColumn string
	// IntegerType is the column type for integer features
	IntegerType string
	// ContinuousType is the column type for continuous features
	ContinuousType string
	// Placeholder returns the bind parameter for the n-th argument of a
	// statement, starting at 1
	Placeholder func(int) string
}

type adapter struct {
	db      *sql.DB
	dialect Dialect
}

/*
NewAdapter takes an opened database and the Dialect it speaks and returns
an Adapter that works on it. The adapter owns the database: closing the
adapter closes it.
*/
func NewAdapter(db *sql.DB, dialect Dialect) Adapter {
	return &adapter{db, dialect}
}

func (a *adapter) ColumnName(featureName string) (string, error) {
	if featureName == "id" {
		return "", fmt.Errorf(`'%s' is reserved and cannot be used as feature name`, featureName)
	}
	if strings.ContainsAny(featureName, `"`) {
		return "", fmt.Errorf(`feature name '%s' contains invalid character '"'`, featureName)
	}
	return featureName, nil
}

func (a *adapter) CreateSampleTable(ctx context.Context, integerFeatureColumns, continuousFeatureColumns []string) error {
	var createStmtBuf bytes.Buffer
	createStmtBuf.WriteString("CREATE TABLE IF NOT EXISTS samples(")
	for _, c := range integerFeatureColumns {
		createStmtBuf.WriteString(fmt.Sprintf(`"%s" %s NULL, `, c, a.dialect.IntegerType))
	}
	for _, c := range continuousFeatureColumns {
		createStmtBuf.WriteString(fmt.Sprintf(`"%s" %s NULL, `, c, a.dialect.ContinuousType))
	}
	createStmtBuf.WriteString(a.dialect.IDColumn)
	createStmtBuf.WriteString(")")
	createStmt, err := a.db.PrepareContext(ctx, createStmtBuf.String())
	if err != nil {
		return fmt.Errorf("preparing samples creation statement: %v", err)
	}
	defer createStmt.Close()
	_, err = createStmt.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("ensuring samples table exists: %v", err)
	}
	return nil
}

func (a *adapter) AddSamples(ctx context.Context, rawSamples []map[string]interface{}, integerFeatureColumns, continuousFeatureColumns []string) (int, error) {
	if len(rawSamples) == 0 {
		return 0, nil
	}
	columns := make([]string, 0, len(integerFeatureColumns)+len(continuousFeatureColumns))
	columns = append(columns, integerFeatureColumns...)
	columns = append(columns, continuousFeatureColumns...)
	if len(columns) == 0 {
		return 0, fmt.Errorf("no features to store")
	}
	var (
		insertStmt *sql.Stmt
		stmtRows   int
		err        error
	)
	defer func() {
		if insertStmt != nil {
			insertStmt.Close()
		}
	}()
	for chunkStart := 0; chunkStart < len(rawSamples); chunkStart += MaxSampleInsertionsPerStatement {
		chunkEnd := min(chunkStart+MaxSampleInsertionsPerStatement, len(rawSamples))
		chunk := rawSamples[chunkStart:chunkEnd]
		if len(chunk) != stmtRows {
			if insertStmt != nil {
				insertStmt.Close()
			}
			insertStmt, err = a.db.PrepareContext(ctx, a.insertStatement(columns, len(chunk)))
			if err != nil {
				return chunkStart, fmt.Errorf("preparing insert command for %d samples: %v", len(chunk), err)
			}
			stmtRows = len(chunk)
		}
		values := make([]interface{}, 0, len(chunk)*len(columns))
		for _, rs := range chunk {
			for _, c := range columns {
				values = append(values, rs[c])
			}
		}
		_, err = insertStmt.ExecContext(ctx, values...)
		if err != nil {
			return chunkStart, fmt.Errorf("inserting samples %d to %d: %v", chunkStart+1, chunkEnd, err)
		}
	}
	return len(rawSamples), nil
}

func (a *adapter) insertStatement(columns []string, rows int) string {
	var buf bytes.Buffer
	buf.WriteString(`INSERT INTO samples ("`)
	buf.WriteString(strings.Join(columns, `", "`))
	buf.WriteString(`") VALUES `)
	for i := 0; i < rows; i++ {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString("(")
		for j := range columns {
			if j > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(a.dialect.Placeholder(1 + i*len(columns) + j))
		}
		buf.WriteString(")")
	}
	return buf.String()
}

func (a *adapter) IterateOnSamples(ctx context.Context, criteria []*FeatureCriterion, integerFeatureColumns, continuousFeatureColumns []string, lambda func(int, map[string]interface{}) (bool, error)) error {
	var queryBuffer bytes.Buffer
	queryBuffer.WriteString(`SELECT "id"`)
	for _, c := range integerFeatureColumns {
		queryBuffer.WriteString(fmt.Sprintf(`, "%s"`, c))
	}
	for _, c := range continuousFeatureColumns {
		queryBuffer.WriteString(fmt.Sprintf(`, "%s"`, c))
	}
	queryBuffer.WriteString(` FROM samples`)
	whereClause, whereValues := WhereClause(criteria, a.dialect.Placeholder)
	queryBuffer.WriteString(whereClause)
	queryBuffer.WriteString(` ORDER BY "id"`)
	rows, err := a.db.QueryContext(ctx, queryBuffer.String(), whereValues...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		integerValues := make([]sql.NullInt64, len(integerFeatureColumns))
		continuousValues := make([]sql.NullFloat64, len(continuousFeatureColumns))
		values := make([]interface{}, 0, 1+len(integerFeatureColumns)+len(continuousFeatureColumns))
		values = append(values, &id)
		for i := range integerValues {
			values = append(values, &integerValues[i])
		}
		for i := range continuousValues {
			values = append(values, &continuousValues[i])
		}
		err = rows.Scan(values...)
		if err != nil {
			return err
		}
		rawSample := make(map[string]interface{})
		for i, c := range integerFeatureColumns {
			if integerValues[i].Valid {
				rawSample[c] = int(integerValues[i].Int64)
			}
		}
		for i, c := range continuousFeatureColumns {
			if continuousValues[i].Valid {
				rawSample[c] = continuousValues[i].Float64
			}
		}
		ok, err := lambda(int(id), rawSample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return rows.Err()
}

func (a *adapter) CountSamples(ctx context.Context, criteria []*FeatureCriterion) (int, error) {
	whereClause, whereValues := WhereClause(criteria, a.dialect.Placeholder)
	var count int
	err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM samples`+whereClause, whereValues...).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (a *adapter) Close() error {
	return a.db.Close()
}
