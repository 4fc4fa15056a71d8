package main

import "pxf-manager/cmd"

func main() {
	cmd.Execute()
}
