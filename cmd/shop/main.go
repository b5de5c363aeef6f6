// Command shop runs the shop API server and its maintenance tasks.
package main

import "shop/cmd/shop/commands"

func main() {
	commands.Execute()
}
