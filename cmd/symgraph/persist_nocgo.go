//go:build !cgo

package main

import (
	"context"
	"errors"

	"github.com/symgraph/symgraph"
)

func persistGraph(context.Context, string, *symgraph.Session) error {
	return errors.New("graph persistence requires a cgo-enabled build")
}
