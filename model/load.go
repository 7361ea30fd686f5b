package model

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"airlockmc/state"

	"go.uber.org/multierr"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

//go:embed airlock.yaml
var airlockDocument []byte

// Airlock returns the built-in airlock model.
func Airlock() (*Model, error) {
	return Load(bytes.NewReader(airlockDocument))
}

type modelDoc struct {
	Name        string              `yaml:"name"`
	Initial     map[string]string   `yaml:"initial"`
	AccessModes map[string][]string `yaml:"access_modes"`
	Tables      tablesDoc           `yaml:"tables"`
}

type tablesDoc struct {
	InnerDoor   []ruleDoc            `yaml:"inner_door"`
	OuterDoor   []ruleDoc            `yaml:"outer_door"`
	Resets      map[string][]ruleDoc `yaml:"resets"`
	Cleanliness []ruleDoc            `yaml:"cleanliness"`
}

type ruleDoc struct {
	ID          string            `yaml:"id"`
	When        map[string]string `yaml:"when"`
	AnyPressed  []string          `yaml:"any_pressed"`
	NonePressed []string          `yaml:"none_pressed"`
	Then        string            `yaml:"then"`
}

// LoadFile reads a model document from a file.
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return Load(f)
}

// Load parses a YAML model document and checks it.
//
// Every problem found, unknown fields or values, duplicate rule ids, missing
// tables and tables that are not total over the configuration domain, is
// reported together in a *MalformedModelError.
func Load(r io.Reader) (*Model, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc modelDoc
	if err := dec.Decode(&doc); err != nil {
		return nil, &MalformedModelError{Model: "?", Err: fmt.Errorf("decode: %w", err)}
	}
	if doc.Name == "" {
		doc.Name = "airlock"
	}

	var errs error
	m := &Model{Name: doc.Name, Start: state.Initial()}

	names := maps.Keys(doc.Initial)
	slices.Sort(names)
	for _, name := range names {
		cfg, err := m.Start.With(state.Field(name), doc.Initial[name])
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("initial: %w", err))
			continue
		}
		m.Start = cfg
	}

	graph, err := parseAccessModes(doc.AccessModes)
	errs = multierr.Append(errs, err)
	m.AccessModes = graph

	ctrl := &Controller{}
	ctrl.InnerDoor, err = parseTable("inner_door", doc.Tables.InnerDoor, false, state.ParseDoorCmd)
	errs = multierr.Append(errs, err)
	ctrl.OuterDoor, err = parseTable("outer_door", doc.Tables.OuterDoor, false, state.ParseDoorCmd)
	errs = multierr.Append(errs, err)
	resetNames := maps.Keys(doc.Tables.Resets)
	slices.Sort(resetNames)
	for _, name := range resetNames {
		if _, ok := state.ButtonByField(state.Field(name)); !ok {
			errs = multierr.Append(errs, fmt.Errorf("resets: %w: %q", state.ErrUnknownField, name))
		}
	}
	for _, id := range state.ButtonIDs {
		ctrl.Resets[id], err = parseTable("reset_"+id.String(), doc.Tables.Resets[id.String()], true, parseReset)
		errs = multierr.Append(errs, err)
	}
	ctrl.Cleanliness, err = parseTable("cleanliness", doc.Tables.Cleanliness, true, parseCleanAction)
	errs = multierr.Append(errs, err)
	m.Controller = ctrl

	if errs != nil {
		return nil, &MalformedModelError{Model: m.Name, Err: errs}
	}
	if err := m.CheckTotal(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseAccessModes(doc map[string][]string) (AccessModeGraph, error) {
	if len(doc) == 0 {
		return DefaultAccessModes(), nil
	}
	var errs error
	graph := AccessModeGraph{}
	modes := maps.Keys(doc)
	slices.Sort(modes)
	for _, from := range modes {
		tos := doc[from]
		mode, err := state.ParseAccessMode(from)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("access_modes: %w", err))
			continue
		}
		for _, to := range tos {
			next, err := state.ParseAccessMode(to)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("access_modes: %w", err))
				continue
			}
			graph[mode] = append(graph[mode], next)
		}
	}
	if err := graph.validate(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("access_modes: %w", err))
	}
	return graph, errs
}

var errEmptyTable = errors.New("table has no rules")

func parseTable[V any](name string, docs []ruleDoc, allowCmds bool, parse func(string) (V, error)) (Table[V], error) {
	table := Table[V]{Name: name}
	if len(docs) == 0 {
		return table, fmt.Errorf("%s: %w", name, errEmptyTable)
	}
	var errs error
	ids := map[string]bool{}
	for i, doc := range docs {
		id := doc.ID
		if id == "" {
			id = fmt.Sprintf("%s#%d", name, i+1)
		}
		if ids[id] {
			errs = multierr.Append(errs, fmt.Errorf("%s: duplicate rule id %q", name, id))
		}
		ids[id] = true

		rule, err := parseRule(doc, allowCmds, parse)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: rule %q: %w", name, id, err))
			continue
		}
		rule.ID = id
		table.Rules = append(table.Rules, rule)
	}
	return table, errs
}

func parseRule[V any](doc ruleDoc, allowCmds bool, parse func(string) (V, error)) (Rule[V], error) {
	when := map[state.Field]string{}
	for f, v := range doc.When {
		when[state.Field(f)] = v
	}
	anyPressed, err := parseButtons(doc.AnyPressed)
	if err != nil {
		return Rule[V]{}, err
	}
	nonePressed, err := parseButtons(doc.NonePressed)
	if err != nil {
		return Rule[V]{}, err
	}
	guard, err := NewGuard(when, anyPressed, nonePressed, allowCmds)
	if err != nil {
		return Rule[V]{}, err
	}
	then, err := parse(doc.Then)
	if err != nil {
		return Rule[V]{}, err
	}
	return Rule[V]{Guard: guard, Then: then}, nil
}

func parseButtons(names []string) ([]state.ButtonID, error) {
	out := make([]state.ButtonID, 0, len(names))
	for _, name := range names {
		id, ok := state.ButtonByField(state.Field(name))
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a button", state.ErrUnknownField, name)
		}
		out = append(out, id)
	}
	return out, nil
}

func parseReset(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "reset":
		return true, nil
	case "keep":
		return false, nil
	}
	return false, fmt.Errorf("%w: reset outcome %q", state.ErrUnknownValue, s)
}
