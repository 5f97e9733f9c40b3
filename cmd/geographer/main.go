// Command geographer is the CLI front-end for the partitioner: it reads a
// graph/coordinate file pair off disk, runs the balanced k-means engine,
// and writes a partition file, the way the METIS family of command-line
// tools does.
package main

import (
	"github.com/kit-parco/geographer-go/cmd/geographer/cmd"
)

func main() {
	cmd.Execute()
}
