package main

import "github.com/pantrywatch/pantrywatch/cmd"

func main() {
	cmd.Execute()
}
