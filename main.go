package main

import "github.com/jsphweid/beattable/cmd"

func main() {
	cmd.Execute()
}
