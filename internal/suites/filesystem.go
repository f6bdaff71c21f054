package suites

import (
	"ssd-validator/internal/executor"
	"ssd-validator/internal/suite"
)

// DefaultFilesystemDevice is inspected by the host-wide filesystem checks when
// no other device is configured
const DefaultFilesystemDevice = "/dev/nvme0n1"

func filesystemChecks(opts Options) []suite.Check {
	dev := opts.FilesystemDevice
	if dev == "" {
		dev = DefaultFilesystemDevice
	}

	return []suite.Check{
		host("FileSystem_Status", executor.Elevated("fsck", "-Af", "-M")),
		host("Disk_Usage", executor.Elevated("df", "-h")),
		host("Inode_Usage", executor.Elevated("df", "-i")),
		host("Orphaned_Inodes", executor.Elevated("debugfs", "-R", "stats", dev)),
		host("Mount_Status", executor.Elevated("mount", "-v")),
		host("Disk_SMART_Status", executor.Elevated("smartctl", "-a", dev)),
		host("FileSystem_Type", executor.Elevated("lsblk", "-f")),
		host("FileSystem_Health", executor.Elevated("smartctl", "-H", dev)),
		host("System_Logs_Errors", executor.Elevated("journalctl", "-xe").GrepI("filesystem")),
		host("FileSystem_Resizing", executor.Elevated("resize2fs", "-P", dev)),
		host("FileSystem_Detailed_Status", executor.Elevated("tune2fs", "-l", dev)),
		host("FileSystem_Safety", executor.Elevated("mount", "-o", "check", dev)),
	}
}
