package main

import "github.com/datalens-ai/datalens/cmd"

func main() {
	cmd.Execute()
}
