// Command synthgen generates the synthesis scripts and memory compiler
// configs of the processor.
package main

import "github.com/sarchlab/synthgen/synthgen/cmd"

func main() {
	cmd.Execute()
}
