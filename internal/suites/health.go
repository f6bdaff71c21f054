package suites

import (
	"ssd-validator/internal/executor"
	"ssd-validator/internal/suite"
	"ssd-validator/pkg/types"
)

func smartctlChecks(Options) []suite.Check {
	return []suite.Check{
		onDevice("Overall Health", "smartctl", "-H"),
		onDevice("Device Info", "smartctl", "-i"),
		onDevice("SMART Attributes", "smartctl", "-A"),
		onDevice("Error Log", "smartctl", "-l", "error"),
		onDevice("Self-Test Log", "smartctl", "-l", "selftest"),
		onDevice("Thresholds Log", "smartctl", "-T"),
		// starts the drive's own background self-test, data is untouched
		onDevice("Long_Self-Test Log", "smartctl", "-t", "long"),
		grepped("Maximum_Data_Transfer", onDevice("", "smartctl", "-a"), "Maximum Data Transfer Size"),
		grepE("NVMe_Device_Inforamation", onDevice("", "smartctl", "-i"), "NVMe Version|Model Number|Serial Number"),
		grepped("Media_Data_Integrity", onDevice("", "smartctl", "-a"), "Media and Data Integrity Errors"),
		grepped("Controller_BusyTime_Info", onDevice("", "smartctl", "-a"), "Controller Busy Time"),
	}
}

func nvmeChecks(Options) []suite.Check {
	return []suite.Check{
		nvme("Device Info", "id-ctrl"),
		nvme("Health Log", "smart-log"),
		nvme("Error Log", "error-log"),
		nvme("Get Features", "get-feature", "-f", "1"),
		nvme("Namespace Info", "list-ns"),
		nvme("Temperature Info", "temperature"),
		nvme("Power-Cycles Info", "power-cycles"),
		grepped("Firmware_Version_Info", nvme("", "id-ctrl"), "fr"),
		grepped("Power_On_Hours_Info", nvme("", "smart-log"), "power_on_hours"),
		grepped("Data_Written_Info", nvme("", "smart-log"), "Data Units Written"),
		grepped("Data_Read_Info", nvme("", "smart-log"), "Data Units Read"),
		grepped("Percentage_Used_Info", nvme("", "smart-log"), "percentage_used"),
		grepped("Unsafe_Shut_Down_Info", nvme("", "smart-log"), "unsafe_shutdowns"),
		grepped("Sensors_Temperature_Info", nvme("", "smart-log"), "Temperature Sensor"),
		grepI("Critical_Warnings_Info", nvme("", "smart-log"), "critical_warning"),
	}
}

// onDevice runs "program args... <device>" elevated
func onDevice(name, program string, args ...string) suite.Check {
	return suite.Check{
		Name: name,
		Build: func(dev types.Device) executor.Command {
			return executor.Elevated(program, append(append([]string(nil), args...), dev.Path)...)
		},
	}
}

// nvme runs "nvme <subcommand> <device> extra..." elevated
func nvme(name, sub string, extra ...string) suite.Check {
	return suite.Check{
		Name: name,
		Build: func(dev types.Device) executor.Command {
			args := append([]string{sub, dev.Path}, extra...)
			return executor.Elevated("nvme", args...)
		},
	}
}

func grepped(name string, base suite.Check, pattern string) suite.Check {
	return filtered(name, base, func(c executor.Command) executor.Command { return c.Grep(pattern) })
}

func grepI(name string, base suite.Check, pattern string) suite.Check {
	return filtered(name, base, func(c executor.Command) executor.Command { return c.GrepI(pattern) })
}

func grepE(name string, base suite.Check, pattern string) suite.Check {
	return filtered(name, base, func(c executor.Command) executor.Command { return c.GrepE(pattern) })
}

func filtered(name string, base suite.Check, apply func(executor.Command) executor.Command) suite.Check {
	build := base.Build
	return suite.Check{
		Name:        name,
		Destructive: base.Destructive,
		Build: func(dev types.Device) executor.Command {
			return apply(build(dev))
		},
	}
}

func destructive(c suite.Check) suite.Check {
	c.Destructive = true
	return c
}
