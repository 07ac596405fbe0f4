package main

import "housing-manager/cmd"

func main() {
	cmd.Execute()
}
