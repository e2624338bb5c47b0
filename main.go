// chatvortex CLI entry point
package main

import "github.com/ilikebug/ChatVortex/cmd"

func main() {
	cmd.Execute()
}
