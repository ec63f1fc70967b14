package main

import "github.com/KaramelBytes/plotease/cmd"

func main() {
	cmd.Execute()
}
