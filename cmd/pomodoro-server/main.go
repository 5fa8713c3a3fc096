package main

import "github.com/oshokin/pomodoro/cmd/pomodoro-server/cmd"

func main() {
	cmd.Execute()
}
