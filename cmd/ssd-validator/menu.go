package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"ssd-validator/pkg/types"
)

// errNoSelection is returned when input ends before a device is chosen
var errNoSelection = errors.New("no device selected")

// selectDevice prints the device menu and reads a 1-based choice, asking
// again until the answer is valid
func selectDevice(in *bufio.Reader, out io.Writer, devices []types.Device) (types.Device, error) {
	color.New(color.Bold).Fprintln(out, "Available SSD devices:")
	for i, d := range devices {
		fmt.Fprintf(out, "%d. %s\n", i+1, d.Label())
	}

	for {
		fmt.Fprint(out, "Select the SSD device to validate (enter number): ")
		line, err := in.ReadString('\n')
		answer := strings.TrimSpace(line)
		if answer == "" && err != nil {
			if errors.Is(err, io.EOF) {
				return types.Device{}, errNoSelection
			}
			return types.Device{}, fmt.Errorf("reading selection: %w", err)
		}

		n, convErr := strconv.Atoi(answer)
		switch {
		case convErr != nil:
			fmt.Fprintln(out, color.YellowString("Invalid input, please enter a number."))
		case n < 1 || n > len(devices):
			fmt.Fprintln(out, color.YellowString("Invalid selection, please choose a valid device number."))
		default:
			return devices[n-1], nil
		}

		if err != nil {
			return types.Device{}, errNoSelection
		}
	}
}
