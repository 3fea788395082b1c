package main

import "lecture-manager/cmd"

func main() {
	cmd.Execute()
}
