// Package trace parses the replay trace format consumed by
// cmd/thermalreplay, grounded on
// original_source/src/thermal_replay.cc's ParseLine: one command per
// line, eight whitespace-separated tokens — clk, command name, channel,
// rank, bankgroup, bank, row, column.
package trace

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/dramthermal/addrmap"
	"github.com/sarchlab/dramthermal/griddeposit"
	"github.com/sarchlab/dramthermal/thermalconfig"
)

var commandNames = map[string]griddeposit.CmdType{
	"read":               griddeposit.Read,
	"read_p":             griddeposit.ReadPrecharge,
	"write":               griddeposit.Write,
	"write_p":             griddeposit.WritePrecharge,
	"activate":           griddeposit.Activate,
	"precharge":          griddeposit.Precharge,
	"refresh":            griddeposit.Refresh,
	"refresh_bank":       griddeposit.RefreshBank,
	"self_refresh_enter": griddeposit.SelfRefreshEnter,
	"self_refresh_exit":  griddeposit.SelfRefreshExit,
}

// Parse streams r's lines as griddeposit.Command values on the returned
// channel. The error channel receives at most one *thermalconfig.TraceError
// or *thermalconfig.IOError and is then closed, along with the command
// channel; a caller should drain both until they close. Parsing stops at
// the first malformed line (fatal at parse, per spec.md §7).
func Parse(r io.Reader) (<-chan griddeposit.Command, <-chan error) {
	cmds := make(chan griddeposit.Command)
	errs := make(chan error, 1)

	go func() {
		defer close(cmds)
		defer close(errs)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		lineNo := 0
		for scanner.Scan() {
			lineNo++
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			cmd, err := parseLine(line, lineNo)
			if err != nil {
				errs <- err
				return
			}
			cmds <- cmd
		}
		if err := scanner.Err(); err != nil {
			errs <- thermalconfig.NewIOError("read", "trace", err)
		}
	}()

	return cmds, errs
}

func parseLine(line string, lineNo int) (griddeposit.Command, error) {
	tokens := strings.Fields(line)
	if len(tokens) != 8 {
		return griddeposit.Command{}, &thermalconfig.TraceError{
			Line: lineNo, Reason: "expected 8 whitespace-separated tokens, got " + strconv.Itoa(len(tokens)),
		}
	}

	clk, err := strconv.ParseUint(tokens[0], 10, 64)
	if err != nil {
		return griddeposit.Command{}, &thermalconfig.TraceError{Line: lineNo, Reason: "clk is not an integer: " + tokens[0]}
	}

	cmdType, ok := commandNames[tokens[1]]
	if !ok {
		return griddeposit.Command{}, &thermalconfig.TraceError{Line: lineNo, Reason: "unknown command name: " + tokens[1]}
	}

	fields := make([]int, 6)
	for i, tok := range tokens[2:8] {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return griddeposit.Command{}, &thermalconfig.TraceError{Line: lineNo, Reason: "non-integer address field: " + tok}
		}
		fields[i] = v
	}

	addr := addrmap.Address{
		Channel:   fields[0],
		Rank:      fields[1],
		Bankgroup: fields[2],
		Bank:      fields[3],
		Row:       fields[4],
		Column:    fields[5],
	}

	return griddeposit.Command{Type: cmdType, Address: addr, ClkIssued: clk}, nil
}
