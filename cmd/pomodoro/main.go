package main

import "github.com/oshokin/pomodoro/cmd/pomodoro/cmd"

func main() {
	cmd.Execute()
}
