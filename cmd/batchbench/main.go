// Command batchbench drives the columnar ingest+query pipeline end to
// end over a CSV file and reports load time, query time and memory use,
// in the same MEMORY_MB=/ROWS=/TIME_MS= line format a naive row-at-a-time
// loader would, so the two can be compared directly.
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/dmitrykoval/govinum/ingest"
	"github.com/dmitrykoval/govinum/table"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: batchbench <csv_file> [SQL_QUERY]")
		fmt.Println(`Example: batchbench testdata/small_test.csv "SELECT SUM(value) FROM t"`)
		os.Exit(1)
	}

	csvPath := os.Args[1]
	query := "SELECT COUNT(*) FROM t"
	if len(os.Args) > 2 {
		query = os.Args[2]
	}

	runtime.GC()
	var memBefore runtime.MemStats
	runtime.ReadMemStats(&memBefore)

	startTime := time.Now()

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	reader, err := ingest.NewCSVReader(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	t, err := table.FromStream(reader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	loadTime := time.Since(startTime)

	var memAfterLoad runtime.MemStats
	runtime.ReadMemStats(&memAfterLoad)

	result, err := t.SQL(query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	totalTime := time.Since(startTime)

	var memAfter runtime.MemStats
	runtime.ReadMemStats(&memAfter)

	memUsedMB := float64(memAfter.Alloc-memBefore.Alloc) / (1024 * 1024)
	heapUsedMB := float64(memAfter.HeapAlloc-memBefore.HeapAlloc) / (1024 * 1024)

	fmt.Println("=== govinum batch pipeline results ===")
	fmt.Printf("File: %s\n", csvPath)
	fmt.Printf("Query: %s\n", query)
	fmt.Printf("Rows loaded: %d\n", t.NumRows())
	fmt.Printf("Result rows: %d\n", result.NumRows())
	fmt.Printf("Load time: %v\n", loadTime)
	fmt.Printf("Total time: %v\n", totalTime)
	fmt.Printf("Memory used (Alloc): %.2f MB\n", memUsedMB)
	fmt.Printf("Memory used (HeapAlloc): %.2f MB\n", heapUsedMB)

	fmt.Println("\n--- Metrics ---")
	fmt.Printf("MEMORY_MB=%.2f\n", memUsedMB)
	fmt.Printf("ROWS=%d\n", t.NumRows())
	fmt.Printf("TIME_MS=%d\n", totalTime.Milliseconds())
}
