package idl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

var (
	// ErrIDLNotFound is returned when the IDL file does not exist.
	ErrIDLNotFound = errors.New("idl file not found")

	// ErrMalformedIDL is returned when the IDL content is not well-formed JSON.
	ErrMalformedIDL = errors.New("malformed idl")

	// ErrInvalidIDL is returned when the IDL parses but fails validation.
	ErrInvalidIDL = errors.New("invalid idl")

	ErrInstructionNotFound = errors.New("instruction not found in idl")
)

// IDL is an Anchor interface description of an on-chain program.
type IDL struct {
	Version      string        `json:"version"`
	Name         string        `json:"name"`
	Instructions []Instruction `json:"instructions"`
	Accounts     []TypeDef     `json:"accounts,omitempty"`
	Types        []TypeDef     `json:"types,omitempty"`
	Events       []Event       `json:"events,omitempty"`
	Errors       []ErrorCode   `json:"errors,omitempty"`
	Metadata     *Metadata     `json:"metadata,omitempty"`
}

type Metadata struct {
	Address string `json:"address,omitempty"`
}

type Instruction struct {
	Name     string        `json:"name"`
	Docs     []string      `json:"docs,omitempty"`
	Accounts []AccountItem `json:"accounts"`
	Args     []Field       `json:"args"`
}

// AccountItem is either a single account or a named group of accounts.
// Groups are used by programs that compose account structs.
type AccountItem struct {
	Name       string        `json:"name"`
	IsMut      bool          `json:"isMut"`
	IsSigner   bool          `json:"isSigner"`
	IsOptional bool          `json:"isOptional,omitempty"`
	Docs       []string      `json:"docs,omitempty"`
	Accounts   []AccountItem `json:"accounts,omitempty"`
}

func (a AccountItem) IsGroup() bool {
	return len(a.Accounts) > 0
}

type Field struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
}

type TypeDef struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
}

type Event struct {
	Name   string       `json:"name"`
	Fields []EventField `json:"fields"`
}

type EventField struct {
	Name  string          `json:"name"`
	Type  json.RawMessage `json:"type"`
	Index bool            `json:"index"`
}

type ErrorCode struct {
	Code uint32 `json:"code"`
	Name string `json:"name"`
	Msg  string `json:"msg,omitempty"`
}

// Load reads and parses the IDL at path.
func Load(path string) (*IDL, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrIDLNotFound, path)
		}
		return nil, fmt.Errorf("failed to read idl: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates IDL JSON.
func Parse(data []byte) (*IDL, error) {
	var idl IDL
	if err := json.Unmarshal(data, &idl); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedIDL, err)
	}
	if err := idl.Validate(); err != nil {
		return nil, err
	}
	return &idl, nil
}

func (i *IDL) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("%w: program name is required", ErrInvalidIDL)
	}
	if len(i.Instructions) == 0 {
		return fmt.Errorf("%w: at least one instruction is required", ErrInvalidIDL)
	}
	seen := make(map[string]struct{}, len(i.Instructions))
	for _, ix := range i.Instructions {
		if ix.Name == "" {
			return fmt.Errorf("%w: instruction name is required", ErrInvalidIDL)
		}
		key := ToSnakeCase(ix.Name)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: duplicate instruction %q", ErrInvalidIDL, ix.Name)
		}
		seen[key] = struct{}{}
		for _, acct := range ix.FlattenAccounts() {
			if acct.Name == "" {
				return fmt.Errorf("%w: instruction %q has an unnamed account", ErrInvalidIDL, ix.Name)
			}
		}
		for _, arg := range ix.Args {
			if arg.Name == "" {
				return fmt.Errorf("%w: instruction %q has an unnamed argument", ErrInvalidIDL, ix.Name)
			}
		}
	}
	codes := make(map[uint32]struct{}, len(i.Errors))
	for _, e := range i.Errors {
		if _, ok := codes[e.Code]; ok {
			return fmt.Errorf("%w: duplicate error code %d", ErrInvalidIDL, e.Code)
		}
		codes[e.Code] = struct{}{}
	}
	return nil
}

// Instruction looks up an instruction by either its IDL (camelCase) or
// snake_case name.
func (i *IDL) Instruction(name string) (*Instruction, error) {
	want := ToSnakeCase(name)
	for idx := range i.Instructions {
		if ToSnakeCase(i.Instructions[idx].Name) == want {
			return &i.Instructions[idx], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrInstructionNotFound, name)
}

func (i *IDL) ErrorByCode(code uint32) (*ErrorCode, bool) {
	for idx := range i.Errors {
		if i.Errors[idx].Code == code {
			return &i.Errors[idx], true
		}
	}
	return nil, false
}

func (i *IDL) Event(name string) (*Event, bool) {
	for idx := range i.Events {
		if i.Events[idx].Name == name {
			return &i.Events[idx], true
		}
	}
	return nil, false
}

// FlattenAccounts returns the leaf accounts of the instruction in the order
// the program expects them, expanding nested groups depth-first.
func (ix *Instruction) FlattenAccounts() []AccountItem {
	out := make([]AccountItem, 0, len(ix.Accounts))
	var walk func(items []AccountItem)
	walk = func(items []AccountItem) {
		for _, item := range items {
			if item.IsGroup() {
				walk(item.Accounts)
				continue
			}
			out = append(out, item)
		}
	}
	walk(ix.Accounts)
	return out
}

func (ix *Instruction) Discriminator() [8]byte {
	return InstructionDiscriminator(ix.Name)
}
