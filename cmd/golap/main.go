// Command golap is a small CLI front end over the table package: load a
// CSV or NDJSON file and run a SELECT statement against it, or inspect
// the zone map statistics a file's batches would produce.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dmitrykoval/govinum/ingest"
	"github.com/dmitrykoval/govinum/metadata"
	"github.com/dmitrykoval/govinum/table"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func main() {
	args := os.Args[1:]
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "query", "q":
		if len(args) < 3 {
			fmt.Println("Error: file path and SQL query required")
			fmt.Println(`Usage: golap query FILE "SELECT ..."`)
			os.Exit(1)
		}
		runQuery(args[1], args[2])

	case "zonemap", "zm":
		if len(args) < 2 {
			fmt.Println("Error: file path required")
			fmt.Println("Usage: golap zonemap FILE")
			os.Exit(1)
		}
		runZoneMap(args[1])

	case "explain", "ex":
		if len(args) < 3 {
			fmt.Println("Error: file path and SQL query required")
			fmt.Println(`Usage: golap explain FILE "SELECT ..." [--ast]`)
			os.Exit(1)
		}
		withAST := len(args) > 3 && args[3] == "--ast"
		runExplain(args[1], args[2], withAST)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Println("Error: unknown command", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`golap - columnar SQL over CSV/NDJSON files

Usage:
  golap query FILE "SQL_QUERY"          Execute a SQL SELECT statement
  golap zonemap FILE                    Print per-batch zone map statistics
  golap explain FILE "SQL_QUERY" [--ast]
                                         Print the query's physical operator
                                         plan, optionally with its bound AST

Examples:
  golap query data.csv "SELECT id, name FROM t WHERE age > 25 ORDER BY age LIMIT 10"
  golap query sales.ndjson "SELECT category, SUM(amount) FROM t GROUP BY category"
  golap zonemap data.csv
  golap explain data.csv "SELECT category, SUM(amount) FROM t GROUP BY category" --ast

Supported SQL:
  SELECT columns or *, WHERE, GROUP BY, HAVING, ORDER BY, LIMIT/OFFSET,
  aggregates COUNT/COUNT(*)/SUM/AVG/MIN/MAX, scalar and np.* functions.

Notes:
  .ndjson and .jsonl files are read as newline-delimited JSON; anything else is
  read as CSV with a header row. Column types are auto-inferred.`)
}

func openTable(path string) (table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return table.Table{}, err
	}
	if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".jsonl") {
		return table.FromStream(ingest.NewNDJSONReader(f))
	}
	reader, err := ingest.NewCSVReader(f)
	if err != nil {
		f.Close()
		return table.Table{}, err
	}
	return table.FromStream(reader)
}

func runQuery(path, query string) {
	t, err := openTable(path)
	if err != nil {
		log.WithError(err).Error("failed to load source")
		os.Exit(1)
	}

	result, err := t.SQL(query)
	if err != nil {
		log.WithError(err).Error("query failed")
		os.Exit(1)
	}

	schema := result.Schema()
	names := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		names[i] = f.Name
	}
	header := strings.Join(names, "\t")
	fmt.Println(header)
	fmt.Println(strings.Repeat("-", len(header)+8))

	rowCount := 0
	for _, batch := range result.Batches() {
		for r := 0; r < batch.NumRows(); r++ {
			values := make([]string, len(batch.Columns))
			for c, col := range batch.Columns {
				values[c] = col.Get(r).String()
			}
			fmt.Println(strings.Join(values, "\t"))
			rowCount++
		}
	}
	fmt.Printf("\n(%d rows)\n", rowCount)
}

func runExplain(path, query string, withAST bool) {
	t, err := openTable(path)
	if err != nil {
		log.WithError(err).Error("failed to load source")
		os.Exit(1)
	}
	plan, err := t.Explain(query, withAST)
	if err != nil {
		log.WithError(err).Error("explain failed")
		os.Exit(1)
	}
	fmt.Print(plan)
}

func runZoneMap(path string) {
	t, err := openTable(path)
	if err != nil {
		log.WithError(err).Error("failed to load source")
		os.Exit(1)
	}
	for i, batch := range t.Batches() {
		zm := metadata.Build(batch)
		fmt.Printf("batch %d (%d rows):\n", i, batch.NumRows())
		for _, f := range batch.Schema.Fields {
			if !zm.Tracked[f.Name] {
				continue
			}
			fmt.Printf("  %s: min=%g max=%g\n", f.Name, zm.Min[f.Name], zm.Max[f.Name])
		}
	}
}
