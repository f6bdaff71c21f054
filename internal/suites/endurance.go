package suites

import (
	"ssd-validator/internal/executor"
	"ssd-validator/internal/suite"
	"ssd-validator/pkg/types"
)

// fioOnDevice runs a fio job against the raw device
func fioOnDevice(name string, write bool, args ...string) suite.Check {
	return suite.Check{
		Name:        name,
		Destructive: write,
		Build: func(dev types.Device) executor.Command {
			argv := make([]string, 0, len(args)+2)
			argv = append(argv, args[0], "--filename="+dev.Path)
			argv = append(argv, args[1:]...)
			argv = append(argv, "--group_reporting")
			return executor.Elevated("fio", argv...)
		},
	}
}

func enduranceChecks(Options) []suite.Check {
	return []suite.Check{
		fioOnDevice("run_seq_write", true,
			"--name=seq_write", "--rw=write", "--bs=1M", "--size=1024", "--numjobs=1", "--time_based", "--runtime=10"),
		fioOnDevice("run_rand_write", true,
			"--name=rand_write", "--rw=randwrite", "--bs=4k", "--size=4096", "--numjobs=4", "--time_based", "--runtime=10"),
		fioOnDevice("run_mixed_rw", true,
			"--name=mixed_rw", "--rw=randrw", "--rwmixread=70", "--bs=4k", "--size=4096", "--numjobs=4", "--time_based", "--runtime=10"),
		fioOnDevice("run_seq_read", false,
			"--name=seq_read", "--rw=read", "--bs=1M", "--size=1M", "--numjobs=1", "--time_based", "--runtime=10"),
		fioOnDevice("run_rand_read", false,
			"--name=rand_read", "--rw=randread", "--bs=4k", "--size=4096", "--numjobs=4", "--time_based", "--runtime=10"),
		fioOnDevice("run_write_integrity", true,
			"--name=write_integrity", "--rw=randwrite", "--bs=4k", "--verify=crc32", "--size=4096", "--numjobs=4"),
		grepI("run_temperature_monitoring", nvme("", "smart-log"), "temperature"),
		onDevice("run_smart_attributes", "smartctl", "-a"),
		onDevice("run_disk_health", "smartctl", "-a"),
		nvme("run_nvme_smart_log", "smart-log"),
		nvme("run_error_log", "error-log"),
		nvme("run_power_state", "power-state"),
	}
}
