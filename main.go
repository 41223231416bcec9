package main

import "github.com/ex11-team/simplesh/cmd"

func main() {
	cmd.Execute()
}
