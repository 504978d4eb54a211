package main

import "github.com/Norgate-AV/icp/cmd"

func main() {
	cmd.Execute()
}
