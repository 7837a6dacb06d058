package main

import "ddn-storage/cmd"

func main() {
	cmd.Execute()
}
