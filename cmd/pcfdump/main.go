// pcfdump decodes PCF payload files and prints the result as JSON.
// Debugging aid for captured statistics and accounting messages.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/mqwatch/mq-stats-collector/internal/domain"
	"github.com/mqwatch/mq-stats-collector/internal/extract"
	"github.com/mqwatch/mq-stats-collector/internal/pcf"
)

type dumpParameter struct {
	ID    uint32      `json:"id"`
	Type  int32       `json:"type"`
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

type dumpResult struct {
	File             string              `json:"file"`
	Kind             string              `json:"kind"`
	Command          int32               `json:"command"`
	Corrupted        bool                `json:"corrupted"`
	CorruptionReason string              `json:"corruption_reason,omitempty"`
	ParameterCount   int32               `json:"declared_parameter_count"`
	Parameters       []dumpParameter     `json:"parameters"`
	QueueOperations  any                 `json:"queue_operations,omitempty"`
	Identity         domain.IdentityInfo `json:"identity"`
	Error            string              `json:"error,omitempty"`
}

func main() {
	showOps := flag.Bool("ops", false, "include extracted queue operations")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: pcfdump [-ops] <file>...")
		os.Exit(2)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	exitCode := 0
	for _, path := range flag.Args() {
		result := dumpFile(path, *showOps)
		if result.Error != "" {
			exitCode = 1
		}
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "encode failed: %v\n", err)
			os.Exit(1)
		}
	}
	os.Exit(exitCode)
}

func dumpFile(path string, showOps bool) dumpResult {
	result := dumpResult{File: path}

	buf, err := os.ReadFile(path)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	msg, err := pcf.DecodeMessage(buf)
	if err != nil {
		result.Error = err.Error()
		result.Identity = extract.Identity(buf)
		return result
	}

	result.Kind = string(msg.Header.Kind)
	result.Command = msg.Header.Command
	result.Corrupted = msg.Header.Corrupted
	result.CorruptionReason = msg.Header.CorruptionReason
	result.ParameterCount = msg.Header.ParameterCount
	result.Identity = extract.Identity(buf)

	for _, p := range msg.Parameters {
		result.Parameters = append(result.Parameters, dumpParameter{
			ID:    p.ID,
			Type:  p.Type,
			Name:  p.Name,
			Value: parameterValue(p.Value),
		})
	}

	if showOps {
		result.QueueOperations = extract.QueueOperations(msg)
	}

	return result
}

func parameterValue(v domain.Value) interface{} {
	switch val := v.(type) {
	case domain.IntValue:
		return int32(val)
	case domain.StringValue:
		return string(val)
	case domain.BytesValue:
		return string(val)
	case domain.IntListValue:
		return []int32(val)
	case domain.PlaceholderValue:
		return string(val)
	default:
		return nil
	}
}
