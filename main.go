package main

import "github.com/kidoz/zbxctl/cmd"

func main() {
	cmd.Execute()
}
