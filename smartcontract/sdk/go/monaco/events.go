package monaco

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/monaco-dca/monaco/smartcontract/sdk/go/idl"
)

const (
	programLogPrefix  = "Program log: "
	programDataPrefix = "Program data: "
)

// ParseDidSwapEvents decodes every DidSwap event emitted in a transaction's
// log messages. Lines that are not base64 event payloads are skipped.
func ParseDidSwapEvents(logs []string) ([]DidSwap, error) {
	var events []DidSwap
	for _, line := range logs {
		payload, ok := eventPayload(line)
		if !ok {
			continue
		}
		if !bytes.HasPrefix(payload, DiscriminatorDidSwap[:]) {
			continue
		}
		event, err := DeserializeDidSwap(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s event: %w", EventNameDidSwap, err)
		}
		events = append(events, *event)
	}
	return events, nil
}

func eventPayload(line string) ([]byte, bool) {
	var encoded string
	switch {
	case strings.HasPrefix(line, programDataPrefix):
		encoded = strings.TrimPrefix(line, programDataPrefix)
	case strings.HasPrefix(line, programLogPrefix):
		encoded = strings.TrimPrefix(line, programLogPrefix)
	default:
		return nil, false
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil || len(data) < idl.DiscriminatorSize {
		return nil, false
	}
	return data, true
}
