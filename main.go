package main

import "LabelCMS/cmd"

func main() {
	cmd.Execute()
}
