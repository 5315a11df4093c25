package main

import "github.com/aithmine/ansible-audit-callback-plugin/cmd"

func main() {
	cmd.Execute()
}
