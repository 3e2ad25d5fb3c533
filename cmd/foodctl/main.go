package main

import "github.com/josepguedes/Projeto-2/cmd/foodctl/commands"

func main() {
	commands.Execute()
}
