package main

import (
	"context"

	"github.com/calebmv/tally/internal/cli"
)

func main() {
	ctx := context.Background()
	cli.Main(ctx)
}
