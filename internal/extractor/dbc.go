package extractor

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// dbcIDMask strips the extended frame flag (bit 31) from a message id.
const dbcIDMask = 0x1FFFFFFF

var (
	dbcMessage = regexp.MustCompile(`^BO_\s+(\d+)\s+(\w+)\s*:\s*(\d+)\s+(\w+)`)
	dbcSignal  = regexp.MustCompile(`^SG_\s+(\w+)\s*(?:\w+\s*)?:\s*(\d+)\|(\d+)@([01])([+-])`)
)

// parseDBC reads CAN messages and groups them in one view per transmitting
// node, in order of first appearance. Each message is a group addressed by
// its frame id.
func parseDBC(data []byte) ([]*draft, error) {
	var (
		views   []*draft
		byNode  = make(map[string]*draft)
		current *draft
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, "BO_ "):
			m := dbcMessage.FindStringSubmatch(line)
			if m == nil {
				return nil, fmt.Errorf("parse dbc: line %d: malformed message %q", lineNo, line)
			}
			id, err := strconv.ParseUint(m[1], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("parse dbc: line %d: message id: %w", lineNo, err)
			}
			dlc, _ := strconv.ParseUint(m[3], 10, 32)

			node := m[4]
			view, ok := byNode[node]
			if !ok {
				view = &draft{node: Node{Name: node, Type: NodeTypeView}}
				byNode[node] = view
				views = append(views, view)
			}
			current = view.add(&draft{node: Node{Name: m[2], Type: NodeTypeGroup, Group: GroupInfo{
				CycleID:     uint32(id & dbcIDMask),
				Size:        dlc,
				ArrayLength: 1,
			}}})

		case strings.HasPrefix(line, "SG_ "):
			if current == nil {
				return nil, fmt.Errorf("parse dbc: line %d: signal outside of a message", lineNo)
			}
			m := dbcSignal.FindStringSubmatch(line)
			if m == nil {
				return nil, fmt.Errorf("parse dbc: line %d: malformed signal %q", lineNo, line)
			}
			start, _ := strconv.ParseUint(m[2], 10, 32)
			length, _ := strconv.ParseUint(m[3], 10, 32)
			order := "little"
			if m[4] == "0" {
				order = "big"
			}
			current.add(&draft{node: Node{Name: m[1], Type: NodeTypeSignal, Signal: SignalInfo{
				Offset:      start / 8,
				Size:        (start%8 + length + 7) / 8,
				BitOffset:   uint32(start),
				BitLength:   uint32(length),
				Type:        dbcSignalType(length, m[5] == "-"),
				ByteOrder:   order,
				ArrayLength: 1,
			}}})

		case line == "":
			// a message block may contain blank lines
		default:
			current = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("parse dbc: %w", err)
	}
	return views, nil
}

func dbcSignalType(bits uint64, signed bool) string {
	width := 64
	switch {
	case bits == 1 && !signed:
		return "bool"
	case bits <= 8:
		width = 8
	case bits <= 16:
		width = 16
	case bits <= 32:
		width = 32
	}
	if signed {
		return fmt.Sprintf("int%d", width)
	}
	return fmt.Sprintf("uint%d", width)
}
