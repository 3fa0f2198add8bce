// Package parser turns prefix expression source into an expression tree.
// This file provides short aliases for the token package types.
package parser

import "github.com/leapstack-labs/stackc/pkg/token"

// Token is an alias for token.Token.
type Token = token.Token

// Position is an alias for token.Position.
type Position = token.Position
