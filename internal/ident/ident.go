// Package ident generates quote numbers for callers that submit a
// document without one. Numbers are snowflake IDs, so they sort by
// creation time and stay unique across processes with distinct node
// IDs.
package ident

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// Generator issues quote numbers. Safe for concurrent use.
type Generator struct {
	node *snowflake.Node
}

func NewGenerator(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("create snowflake node: %w", err)
	}
	return &Generator{node: node}, nil
}

// QuoteNumber returns a new number of the form Q-XXXXXXXXXXXX.
func (g *Generator) QuoteNumber() string {
	return "Q-" + strings.ToUpper(g.node.Generate().Base36())
}
