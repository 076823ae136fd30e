/*
Package sqldataset provides a sample store that uses an SQL database as
backend and can be loaded into a dataset.Dataset.

Samples live on a single samples table with one column per feature, INTEGER
for integer features and a floating point type for continuous ones, plus an
"id" primary key column that provides the row IDs of the loaded dataset.
Undefined values are stored as NULL.

Database specifics are hidden behind the Adapter interface; the
sqlite3adapter and pgadapter subpackages provide adapters for SQLite3 and
PostgreSQL.
*/
package sqldataset
