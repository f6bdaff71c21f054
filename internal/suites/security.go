package suites

import (
	"strings"

	"ssd-validator/internal/executor"
	"ssd-validator/internal/suite"
	"ssd-validator/pkg/types"
)

// DefaultFormatKey is the key used by the password protection check
const DefaultFormatKey = "secure_password"

func securityChecks(opts Options) []suite.Check {
	key := opts.FormatKey
	if key == "" {
		key = DefaultFormatKey
	}

	return []suite.Check{
		grepI("check_sanitize_capabilities", nvme("", "id-ctrl"), "sanicap"),
		destructive(nvme("sanitize_device", "sanitize", "--sanitize=1")),
		nvme("verify_sanitize_progress", "sanitize-log"),
		grepI("check_encryption_capabilities", nvme("", "id-ctrl"), "oacs"),
		{
			Name:        "enable_password_protection",
			Destructive: true,
			Build: func(dev types.Device) executor.Command {
				return executor.Elevated("nvme", "format", dev.Path, "--ses=1", "--key="+key).Mask(key)
			},
		},
		grepI("verify_password_protection", nvme("", "id-ctrl"), "security"),
		nvme("check_firmware_security", "fw-log"),
		nvme("read_smart_log", "smart-log"),
		destructive(nvme("secure_erase", "format", "--ses=1")),
		{
			Name: "verify_data_after_erase",
			Build: func(dev types.Device) executor.Command {
				return executor.Elevated("dd", "if="+dev.Path, "of=/dev/null", "bs=1M", "count=10")
			},
		},
	}
}

// security results are stored trimmed with a single trailing newline
func trimmedLine(text string) string {
	return strings.TrimSpace(text) + "\n"
}
