package main

import "finwarehouse/cmd"

func main() {
	cmd.Execute()
}
