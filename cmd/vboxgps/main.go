package main

import "github.com/elvismircan/vbox-host-guest-location-sharing/cmd/vboxgps/command"

func main() {
	command.Execute()
}
