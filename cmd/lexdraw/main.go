// Command lexdraw turns structured text into diagrams.
package main

import "lexdraw/cmd/lexdraw/commands"

func main() {
	commands.Execute()
}
