package main

import "github.com/stuttgart-things/delete-repo/cmd"

func main() {
	cmd.Execute()
}
