package domain

import "encoding/json"

// Canvas defaults.
const (
	DefaultNodeType = "default"
	DefaultEdgeType = "smoothstep"
)

// CanvasNode is a box on the BI diagram. Data is opaque to the server.
type CanvasNode struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	PositionX string          `json:"positionX"`
	PositionY string          `json:"positionY"`
	Data      json.RawMessage `json:"data"`
	Width     *string         `json:"width,omitempty"`
	Height    *string         `json:"height,omitempty"`
}

// CanvasEdge connects two nodes.
type CanvasEdge struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Type     string `json:"type"`
	Animated bool   `json:"animated"`
}

// Canvas is the whole diagram, saved and loaded as one unit.
type Canvas struct {
	Nodes []CanvasNode `json:"nodes"`
	Edges []CanvasEdge `json:"edges"`
}

// Normalize fills defaults and replaces nil collections with empty ones.
func (c *Canvas) Normalize() {
	if c.Nodes == nil {
		c.Nodes = []CanvasNode{}
	}
	if c.Edges == nil {
		c.Edges = []CanvasEdge{}
	}
	for i := range c.Nodes {
		if c.Nodes[i].Type == "" {
			c.Nodes[i].Type = DefaultNodeType
		}
		if len(c.Nodes[i].Data) == 0 {
			c.Nodes[i].Data = json.RawMessage("{}")
		}
	}
	for i := range c.Edges {
		if c.Edges[i].Type == "" {
			c.Edges[i].Type = DefaultEdgeType
		}
	}
}

// Validate requires ids on every node and edge and endpoints on every edge.
func (c *Canvas) Validate() error {
	for _, n := range c.Nodes {
		if n.ID == "" {
			return NewValidationError("canvas node without id")
		}
	}
	for _, e := range c.Edges {
		if e.ID == "" || e.Source == "" || e.Target == "" {
			return NewValidationError("canvas edge requires id, source and target")
		}
	}
	return nil
}
