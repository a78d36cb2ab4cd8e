package main

import "friends-challenge-backend/cmd"

func main() {
	cmd.Run()
}
