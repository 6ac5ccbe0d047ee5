package sim

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// CSV column orders. The ordering is the contract downstream tools join on
// and must stay stable across exports.
var (
	powerTraceColumns = []string{
		"timestamp", "activity_level", "compute_power", "memory_power", "io_power", "total_power",
	}
	counterTraceColumns = append([]string{"timestamp"}, CounterNames()...)
)

// ExportPowerTrace writes samples as CSV with a header row. Floats use the
// shortest representation that round-trips exactly through LoadPowerTrace.
func ExportPowerTrace(w io.Writer, samples []PowerSample) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(powerTraceColumns); err != nil {
		return fmt.Errorf("writing power trace header: %w", err)
	}
	for i, s := range samples {
		row := []string{
			formatFloat(s.Timestamp),
			formatFloat(s.ActivityLevel),
			formatFloat(s.ComputePower),
			formatFloat(s.MemoryPower),
			formatFloat(s.IOPower),
			formatFloat(s.TotalPower),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing power trace row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WritePowerTraceFile exports samples to a CSV file at path.
func WritePowerTraceFile(path string, samples []PowerSample) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating power trace file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return ExportPowerTrace(file, samples)
}

// LoadPowerTrace parses a CSV previously written by ExportPowerTrace.
func LoadPowerTrace(r io.Reader) ([]PowerSample, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading power trace header: %w", err)
	}
	if err := checkHeader(header, powerTraceColumns); err != nil {
		return nil, fmt.Errorf("power trace: %w", err)
	}

	var samples []PowerSample
	rowIdx := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("power trace row %d: %w", rowIdx, err)
		}
		values, err := parseFloatRow(row, len(powerTraceColumns), rowIdx)
		if err != nil {
			return nil, fmt.Errorf("power trace: %w", err)
		}
		samples = append(samples, PowerSample{
			Timestamp:     values[0],
			ActivityLevel: values[1],
			ComputePower:  values[2],
			MemoryPower:   values[3],
			IOPower:       values[4],
			TotalPower:    values[5],
		})
		rowIdx++
	}
	return samples, nil
}

// ReadPowerTraceFile loads a power trace CSV from path.
func ReadPowerTraceFile(path string) ([]PowerSample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening power trace file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return LoadPowerTrace(file)
}

// ExportCounterTrace writes counter samples as CSV with a header row.
func ExportCounterTrace(w io.Writer, samples []CounterSample) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(counterTraceColumns); err != nil {
		return fmt.Errorf("writing counter trace header: %w", err)
	}
	for i, s := range samples {
		row := make([]string, 0, len(counterTraceColumns))
		row = append(row, formatFloat(s.Timestamp))
		for _, v := range s.Values() {
			row = append(row, formatFloat(v))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing counter trace row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCounterTraceFile exports counter samples to a CSV file at path.
func WriteCounterTraceFile(path string, samples []CounterSample) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating counter trace file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return ExportCounterTrace(file, samples)
}

// LoadCounterTrace parses a CSV previously written by ExportCounterTrace.
func LoadCounterTrace(r io.Reader) ([]CounterSample, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading counter trace header: %w", err)
	}
	if err := checkHeader(header, counterTraceColumns); err != nil {
		return nil, fmt.Errorf("counter trace: %w", err)
	}

	var samples []CounterSample
	rowIdx := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("counter trace row %d: %w", rowIdx, err)
		}
		values, err := parseFloatRow(row, len(counterTraceColumns), rowIdx)
		if err != nil {
			return nil, fmt.Errorf("counter trace: %w", err)
		}
		samples = append(samples, CounterSample{
			Timestamp:         values[0],
			SMActivity:        values[1],
			MemoryUtilization: values[2],
			CacheHitRate:      values[3],
			Instructions:      values[4],
			MemoryThroughput:  values[5],
		})
		rowIdx++
	}
	return samples, nil
}

// ReadCounterTraceFile loads a counter trace CSV from path.
func ReadCounterTraceFile(path string) ([]CounterSample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening counter trace file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return LoadCounterTrace(file)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// checkHeader verifies a loaded header row matches the expected columns.
func checkHeader(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("header has %d columns, expected %d (%v)", len(got), len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("header column %d is %q, expected %q", i, got[i], want[i])
		}
	}
	return nil
}

// parseFloatRow parses every cell of row as float64, requiring exactly want cells.
func parseFloatRow(row []string, want, rowIdx int) ([]float64, error) {
	if len(row) != want {
		return nil, fmt.Errorf("row %d has %d columns, expected %d", rowIdx, len(row), want)
	}
	values := make([]float64, len(row))
	for i, cell := range row {
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d column %d: invalid value %q: %w", rowIdx, i, cell, err)
		}
		values[i] = v
	}
	return values, nil
}
