// Package spaceinfo inspects disk usage for the vault's durable store
// paths.
package spaceinfo

import (
	"fmt"

	"github.com/shirou/gopsutil/disk"
	"github.com/sirupsen/logrus"
)

const gigabyte = 1024 * 1024 * 1024

// FreeSpace returns the number of free bytes on the volume holding path.
func FreeSpace(path string) (uint64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, fmt.Errorf("reading disk usage for %s: %w", path, err)
	}
	return usage.Free, nil
}

// CheckMinimumFree fails when the volume holding path has less than
// minimumGB gigabytes free. A minimum of zero or less disables the check.
func CheckMinimumFree(path string, minimumGB int) error {
	if minimumGB <= 0 {
		return nil
	}
	free, err := FreeSpace(path)
	if err != nil {
		return err
	}
	required := uint64(minimumGB) * gigabyte
	if free < required {
		return fmt.Errorf("not enough free space on %s: need %d GB, have %d bytes", path, minimumGB, free)
	}
	return nil
}

// LogDiskUsage reports usage for each path at startup.
func LogDiskUsage(log *logrus.Logger, paths []string) error {
	for _, path := range paths {
		usage, err := disk.Usage(path)
		if err != nil {
			return fmt.Errorf("reading disk usage for %s: %w", path, err)
		}
		log.WithFields(logrus.Fields{
			"path":         path,
			"total_bytes":  usage.Total,
			"free_bytes":   usage.Free,
			"used_percent": fmt.Sprintf("%.1f", usage.UsedPercent),
		}).Info("disk usage")
	}
	return nil
}
