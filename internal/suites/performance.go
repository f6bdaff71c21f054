package suites

import (
	"fmt"

	"ssd-validator/internal/executor"
	"ssd-validator/internal/suite"
	"ssd-validator/pkg/types"
)

type fioJob struct {
	check   string
	name    string
	rw      string
	bs      string
	numjobs int
	iodepth int
}

const (
	fioEngine  = "libaio"
	fioSize    = "131072"
	fioRuntime = 60
)

var fioJobs = []fioJob{
	{check: "Sequential_Read_Info", name: "seq_read", rw: "read", bs: "128k", numjobs: 1, iodepth: 1},
	{check: "Random_Write_Info", name: "rand_write", rw: "randwrite", bs: "4k", numjobs: 4, iodepth: 1},
	{check: "IO_depth_Info", name: "high_iodepth", rw: "randrw", bs: "4k", numjobs: 4, iodepth: 32},
	{check: "Sequential_Write_Info", name: "seq_write", rw: "write", bs: "128k", numjobs: 1, iodepth: 1},
	{check: "Random_Read_Test", name: "rand_read", rw: "randread", bs: "4k", numjobs: 4, iodepth: 1},
	{check: "Mixed_Read_Write_Test", name: "rand_read_write", rw: "randwrite", bs: "4k", numjobs: 4, iodepth: 8},
	{check: "Large_Block_Sequential_Read_Test", name: "large_seq_read", rw: "read", bs: "1M", numjobs: 1, iodepth: 1},
	{check: "Large_Block_Random_Write_Test", name: "large_rand_write", rw: "randwrite", bs: "128k", numjobs: 8, iodepth: 16},
	{check: "Throughput_Test", name: "throughput", rw: "write", bs: "128k", numjobs: 1, iodepth: 32},
}

// fio jobs without --filename work on files in the working (or configured)
// directory and never touch the raw device
func fioChecks(opts Options) []suite.Check {
	checks := make([]suite.Check, 0, len(fioJobs))
	for _, job := range fioJobs {
		checks = append(checks, suite.Check{
			Name: job.check,
			Build: func(types.Device) executor.Command {
				args := []string{
					"--name=" + job.name,
					"--ioengine=" + fioEngine,
					"--rw=" + job.rw,
					"--bs=" + job.bs,
					"--size=" + fioSize,
					fmt.Sprintf("--numjobs=%d", job.numjobs),
					fmt.Sprintf("--runtime=%d", fioRuntime),
					fmt.Sprintf("--iodepth=%d", job.iodepth),
					"--group_reporting",
				}
				if opts.FioDirectory != "" {
					args = append(args, "--directory="+opts.FioDirectory)
				}
				return executor.Elevated("fio", args...)
			},
		})
	}
	return checks
}

type ddCase struct {
	check string
	src   string
	write bool
	bs    string
	count int
}

var ddCases = []ddCase{
	{check: "Sequential_Write_Test", src: "/dev/zero", write: true, bs: "128k", count: 1024},
	{check: "Sequential_Read_Test", bs: "128k", count: 1024},
	{check: "Random_Write_Test", src: "/dev/urandom", write: true, bs: "4k", count: 1024},
	{check: "Random_Read_Test", bs: "4k", count: 1024},
	{check: "Throughput_Test", src: "/dev/zero", write: true, bs: "128k", count: 1024},
	{check: "write_speed_different_block", src: "/dev/zero", write: true, bs: "124", count: 1024},
	{check: "read_speed_different_block", bs: "128k", count: 1024},
	{check: "write_latency_test", src: "/dev/zero", write: true, bs: "4k", count: 1024},
	{check: "read_latency_test", bs: "4K", count: 1024},
}

func ddChecks(Options) []suite.Check {
	checks := make([]suite.Check, 0, len(ddCases))
	for _, c := range ddCases {
		checks = append(checks, suite.Check{
			Name:        c.check,
			Destructive: c.write,
			Build: func(dev types.Device) executor.Command {
				bs := "bs=" + c.bs
				count := fmt.Sprintf("count=%d", c.count)
				if c.write {
					return executor.Elevated("dd", "if="+c.src, "of="+dev.Path, bs, count, "oflag=direct", "status=progress")
				}
				return executor.Elevated("dd", "if="+dev.Path, "of=/dev/null", bs, count, "iflag=direct", "status=progress")
			},
		})
	}
	return checks
}

func iopingChecks(Options) []suite.Check {
	return []suite.Check{
		onDevice("Sequential_IO_Latency", "ioping", "-c", "10", "-s", "4k", "-D"),
		onDevice("Continuous_IO_Latency", "ioping", "-c", "10", "-s", "4k"),
		onDevice("Max_IO_Latency", "ioping", "-c", "10", "-s", "1M", "-i", "0.5"),
		destructive(onDevice("Write_Latency_Test", "ioping", "-c", "10", "-W")),
		onDevice("Read _Latency_Test", "ioping", "-c", "10", "-R"),
		destructive(onDevice("Block_Read_Write_Latency", "ioping", "-c", "10", "-s", "1M", "-W")),
	}
}
