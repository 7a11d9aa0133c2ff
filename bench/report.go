package bench

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/borlak/memory-manager/sizeclass"
	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// ClassRow is one line of the per-class report table.
type ClassRow struct {
	ClassSize    int
	Preallocated int
	Requested    int
}

// Report holds the results of one benchmark run.
type Report struct {
	// Requests is the number of allocation requests each phase served
	Requests int
	// RequestedBytes is the number of bytes the workload requested in total
	RequestedBytes int
	// PreallocatedBytes is the number of bytes seeded into the allocator before the
	// pooled phase
	PreallocatedBytes int

	// SystemTime is the wall time of the acquire-and-release pass against the Go heap
	SystemTime time.Duration
	// PooledTime is the wall time of the same pass against the slab allocator
	PooledTime time.Duration

	// Rows is the per-class table, ascending by class size
	Rows []ClassRow
}

// Validate checks the report for internal consistency: the per-class rows must account
// for exactly the requests, requested bytes, and preallocated bytes the run reported.
func (r *Report) Validate() error {
	if len(r.Rows) != sizeclass.Count {
		return errors.Errorf("the report has %d class rows, but there are %d size classes", len(r.Rows), sizeclass.Count)
	}

	requestCount := 0
	requestedBytes := 0
	preallocatedBytes := 0
	for _, row := range r.Rows {
		if row.Preallocated < 0 || row.Requested < 0 {
			return errors.Errorf("the row for class size %d has negative counts", row.ClassSize)
		}
		requestCount += row.Requested
		requestedBytes += row.ClassSize * row.Requested
		preallocatedBytes += row.ClassSize * row.Preallocated
	}

	if requestCount != r.Requests {
		return errors.Errorf("the class rows account for %d requests, but the run reports %d", requestCount, r.Requests)
	}
	if requestedBytes != r.RequestedBytes {
		return errors.Errorf("the class rows account for %d requested bytes, but the run reports %d", requestedBytes, r.RequestedBytes)
	}
	if preallocatedBytes != r.PreallocatedBytes {
		return errors.Errorf("the class rows account for %d preallocated bytes, but the run reports %d", preallocatedBytes, r.PreallocatedBytes)
	}
	if r.SystemTime < 0 || r.PooledTime < 0 {
		return errors.New("phase durations may not be negative")
	}

	return nil
}

// WriteText prints the report as a fixed-width table.
func (r *Report) WriteText(w io.Writer) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Benchmarking with %d allocations totaling %d bytes (%s)\n",
		r.Requests, r.RequestedBytes, humanize.IBytes(uint64(r.RequestedBytes)))
	fmt.Fprintf(&sb, "System allocator:    %v\n", r.SystemTime)
	fmt.Fprintf(&sb, "Free-list allocator: %v\n", r.PooledTime)
	fmt.Fprintf(&sb, "Preallocated %d bytes (%s) across all size classes in a cyclic pass\n",
		r.PreallocatedBytes, humanize.IBytes(uint64(r.PreallocatedBytes)))

	fmt.Fprintf(&sb, "\nMemory statistics:\n")
	fmt.Fprintf(&sb, "%-10s %-15s %-15s\n", "Class Size", "Preallocated", "Requested")
	for _, row := range r.Rows {
		fmt.Fprintf(&sb, "%-10d %-15d %-15d\n", row.ClassSize, row.Preallocated, row.Requested)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteJSON writes the report as a single JSON object.
func (r *Report) WriteJSON(w io.Writer) error {
	writer := jwriter.NewWriter()

	obj := writer.Object()
	obj.Name("Requests").Int(r.Requests)
	obj.Name("RequestedBytes").Int(r.RequestedBytes)
	obj.Name("PreallocatedBytes").Int(r.PreallocatedBytes)
	obj.Name("SystemNanos").Int(int(r.SystemTime))
	obj.Name("PooledNanos").Int(int(r.PooledTime))

	rows := obj.Name("Classes").Array()
	for _, row := range r.Rows {
		rowObj := rows.Object()
		rowObj.Name("ClassSize").Int(row.ClassSize)
		rowObj.Name("Preallocated").Int(row.Preallocated)
		rowObj.Name("Requested").Int(row.Requested)
		rowObj.End()
	}
	rows.End()
	obj.End()

	if err := writer.Error(); err != nil {
		return err
	}

	_, err := w.Write(writer.Bytes())
	return err
}
