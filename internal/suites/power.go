package suites

import (
	"ssd-validator/internal/executor"
	"ssd-validator/internal/suite"
	"ssd-validator/pkg/types"
)

func powerThermalChecks(Options) []suite.Check {
	return []suite.Check{
		grepped("NVMe_Temperature", nvme("", "smart-log"), "temperature"),
		grepped("NVMe_Power_Consumption", nvme("", "smart-log"), "Power"),
		grepped("Power_On_Hours", nvme("", "smart-log"), "Power_On_Hours"),
		grepped("Power_Cycles", nvme("", "smart-log"), "Power_Cycles"),
		grepped("SMARTCTL_Temperature", onDevice("", "smartctl", "-a"), "Temperature_Celsius"),
		grepped("SMARTCTL_Power_On_Hours", onDevice("", "smartctl", "-a"), "Power_On_Hours"),
		grepped("Thermal_Throttling", nvme("", "smart-log"), "Thermal Throttling"),
		grepped("Device_Health", nvme("", "smart-log"), "health"),
		grepped("NVMe_Firmware_Version", nvme("", "id-ctrl"), "fr "),
		grepped("Operating_Status", nvme("", "smart-log"), "Operating Status"),
		grepped("NVMe_Power_State", nvme("", "id-ctrl"), "Power State"),
		host("System_Temperature", executor.Elevated("sensors")),
		host("System_Fan_Speed", executor.Elevated("sensors").Grep("fan")),
	}
}

// host runs a fixed command that does not depend on the device
func host(name string, cmd executor.Command) suite.Check {
	return suite.Check{
		Name:  name,
		Build: func(types.Device) executor.Command { return cmd },
	}
}
