package graphviz

import (
	"fmt"
	"io"
	"strings"

	"airlockmc/state"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/multi"
)

// Writer renders an explored state space as a graph.
type Writer struct {
	*Config
	g       *cgraph.Graph
	mapping map[int]*cgraph.Node
}

func (w *Writer) writeNode(id int, cfg state.Configuration, highlight bool) error {
	name := fmt.Sprintf("s%d", id)
	node, err := w.g.CreateNode(name)
	if err != nil {
		return err
	}
	node.SetShape(cgraph.BoxShape)
	node.SetLabel(label(id, cfg))
	node.Set("fontname", string(w.Font))
	if id == 0 {
		node.SetPenWidth(2)
	}
	if highlight {
		node.SetStyle(cgraph.FilledNodeStyle)
		node.SetFillColor(w.HighlightColor)
	}
	w.mapping[id] = node
	return nil
}

func (w *Writer) writeEdge(i, from, to int) error {
	name := fmt.Sprintf("e%d", i)
	_, err := w.g.CreateEdge(name, w.mapping[from], w.mapping[to])
	return err
}

// Flush renders the state space to out.
// Nodes whose configuration satisfies highlight are filled with the highlight color.
//
// The DOT format is written without running a layout. SVG and PNG are laid out
// with neato and straight edges, since the hierarchical dot layout does not
// finish on a state space this dense.
func (w *Writer) Flush(out io.Writer, space state.StateSpace, highlight func(state.Configuration) bool) error {
	if w.Format == DOT {
		return w.marshal(out, space, highlight)
	}
	graph := graphviz.New()
	graph.SetLayout(graphviz.NEATO)
	defer func() {
		_ = graph.Close()
	}()
	g, err := graph.Graph()
	if err != nil {
		return err
	}
	defer func() {
		_ = g.Close()
	}()
	g.SetSplines("false")
	w.g = g
	w.mapping = make(map[int]*cgraph.Node)
	for id := 0; id < space.Len(); id++ {
		cfg := space.Configuration(id)
		if err := w.writeNode(id, cfg, highlight != nil && highlight(cfg)); err != nil {
			return err
		}
	}
	i := 0
	for id := 0; id < space.Len(); id++ {
		for _, succ := range space.Successors(id) {
			if err := w.writeEdge(i, id, succ); err != nil {
				return err
			}
			i++
		}
	}
	return graph.Render(w.g, graphviz.Format(w.Format), out)
}

// A configuration in the DOT encoding
type dotNode struct {
	id    int64
	attrs encoding.Attributes
}

func (n dotNode) ID() int64 {
	return n.id
}

func (n dotNode) DOTID() string {
	return fmt.Sprintf("s%d", n.id)
}

func (n dotNode) Attributes() []encoding.Attribute {
	return n.attrs
}

// The state space in the DOT encoding. A multigraph since configurations can step to themselves.
type dotGraph struct {
	*multi.DirectedGraph
	graph, node encoding.Attributes
}

func (g *dotGraph) DOTAttributers() (graph, node, edge encoding.Attributer) {
	return &g.graph, &g.node, &encoding.Attributes{}
}

// marshal writes the state space as DOT text.
func (w *Writer) marshal(out io.Writer, space state.StateSpace, highlight func(state.Configuration) bool) error {
	g := &dotGraph{
		DirectedGraph: multi.NewDirectedGraph(),
		graph:         encoding.Attributes{{Key: "rankdir", Value: string(w.RankDir)}},
		node: encoding.Attributes{
			{Key: "shape", Value: "box"},
			{Key: "fontname", Value: string(w.Font)},
		},
	}
	for id := 0; id < space.Len(); id++ {
		cfg := space.Configuration(id)
		n := dotNode{id: int64(id), attrs: encoding.Attributes{{Key: "label", Value: label(id, cfg)}}}
		if id == 0 {
			n.attrs = append(n.attrs, encoding.Attribute{Key: "penwidth", Value: "2"})
		}
		if highlight != nil && highlight(cfg) {
			n.attrs = append(n.attrs,
				encoding.Attribute{Key: "style", Value: "filled"},
				encoding.Attribute{Key: "fillcolor", Value: w.HighlightColor},
			)
		}
		g.AddNode(n)
	}
	for id := 0; id < space.Len(); id++ {
		from := g.Node(int64(id))
		for _, succ := range space.Successors(id) {
			g.SetLine(g.NewLine(from, g.Node(int64(succ))))
		}
	}
	b, err := dot.MarshalMulti(g, w.Name, "", "\t")
	if err != nil {
		return err
	}
	if _, err := out.Write(b); err != nil {
		return err
	}
	_, err = io.WriteString(out, "\n")
	return err
}

func label(id int, cfg state.Configuration) string {
	pressed := []string{}
	for _, b := range state.ButtonIDs {
		if cfg.Pressed(b) {
			pressed = append(pressed, strings.TrimPrefix(b.String(), "button_"))
		}
	}
	return fmt.Sprintf("%d: %v\ninner %v, outer %v\n%v\n%v",
		id, cfg.AccessMode, cfg.InnerDoor, cfg.OuterDoor, cfg.Cleanliness, strings.Join(pressed, " "))
}

type Font string

const (
	Helvetica Font = "Helvetica"
	Courier   Font = "Courier"
)

type RankDir string

const (
	LeftToRight RankDir = "LR"
	TopToBottom RankDir = "TB"
)

// Output format of the rendered graph
type Format string

const (
	DOT Format = "dot"
	SVG Format = "svg"
	PNG Format = "png"
)

// ParseFormat returns the format with the given name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case DOT, SVG, PNG:
		return f, nil
	}
	return "", fmt.Errorf("graphviz: unknown format %q", s)
}

type Config struct {
	Name string
	Font
	RankDir
	Format
	HighlightColor string
}

func New(config *Config) *Writer {
	if config.Name == "" {
		config.Name = "airlock"
	}
	if config.Format == "" {
		config.Format = DOT
	}
	if config.Font == "" {
		config.Font = Helvetica
	}
	if config.RankDir == "" {
		config.RankDir = LeftToRight
	}
	if config.HighlightColor == "" {
		config.HighlightColor = "#f4cccc"
	}
	return &Writer{
		Config:  config,
		mapping: make(map[int]*cgraph.Node),
	}
}
